package config

import "github.com/everFinance/domns/common"

var log = common.NewLog("config")
