package sdk

import (
	"fmt"
	"net/http"

	"github.com/everFinance/domns/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// DomnsCli talks to a running domns api.
type DomnsCli struct {
	SCli *gentleman.Client
}

func New(domnsUrl string) *DomnsCli {
	return &DomnsCli{
		SCli: gentleman.New().URL(domnsUrl),
	}
}

func (d *DomnsCli) View() (*schema.ViewModel, error) {
	return d.view(http.MethodGet, "/view", nil)
}

func (d *DomnsCli) Domains() ([]schema.DomainRecord, error) {
	req := d.SCli.Get()
	req.Path("/domains")
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, respError(resp)
	}
	records := make([]schema.DomainRecord, 0)
	err = resp.JSON(&records)
	return records, err
}

func (d *DomnsCli) Connect() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/connect", nil)
}

func (d *DomnsCli) SwitchNetwork() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/network/switch", nil)
}

func (d *DomnsCli) SetDomain(v string) (*schema.ViewModel, error) {
	return d.view(http.MethodPut, "/input/domain", schema.ReqInput{Value: v})
}

func (d *DomnsCli) SetRecord(v string) (*schema.ViewModel, error) {
	return d.view(http.MethodPut, "/input/record", schema.ReqInput{Value: v})
}

func (d *DomnsCli) Mint() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/mint", nil)
}

func (d *DomnsCli) Update() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/update", nil)
}

func (d *DomnsCli) StartEdit(name string) (*schema.ViewModel, error) {
	return d.view(http.MethodPost, fmt.Sprintf("/edit/start/%s", name), nil)
}

func (d *DomnsCli) CancelEdit() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/edit/cancel", nil)
}

func (d *DomnsCli) Refresh() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/refresh", nil)
}

func (d *DomnsCli) DismissNotice() (*schema.ViewModel, error) {
	return d.view(http.MethodPost, "/notice/dismiss", nil)
}

// MintDomain fills both inputs and mints in one go.
func (d *DomnsCli) MintDomain(name, record string) (*schema.ViewModel, error) {
	if _, err := d.SetDomain(name); err != nil {
		return nil, err
	}
	if _, err := d.SetRecord(record); err != nil {
		return nil, err
	}
	return d.Mint()
}

// UpdateRecord fills both inputs and sends the record transaction.
func (d *DomnsCli) UpdateRecord(name, record string) (*schema.ViewModel, error) {
	if _, err := d.SetDomain(name); err != nil {
		return nil, err
	}
	if _, err := d.SetRecord(record); err != nil {
		return nil, err
	}
	return d.Update()
}

func (d *DomnsCli) view(method, path string, data interface{}) (*schema.ViewModel, error) {
	req := d.SCli.Request()
	req.Method(method)
	req.Path(path)
	if data != nil {
		req.Use(body.JSON(data))
	}
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, respError(resp)
	}
	v := &schema.ViewModel{}
	err = resp.JSON(v)
	return v, err
}

// respError turns {"error","kind"} bodies into schema.RespErr, which unwraps to the sentinel.
func respError(resp *gentleman.Response) error {
	raw := resp.Bytes()
	msg := gjson.GetBytes(raw, "error")
	if !msg.Exists() {
		return fmt.Errorf("resp failed. http code: %d, body: %s", resp.StatusCode, string(raw))
	}
	return schema.RespErr{
		Err:  msg.String(),
		Kind: schema.ErrorKind(gjson.GetBytes(raw, "kind").String()),
	}
}
