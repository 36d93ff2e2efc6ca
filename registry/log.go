package registry

import "github.com/everFinance/domns/common"

var log = common.NewLog("registry")
