package sdk

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/everFinance/domns/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomnsCli_View(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/view", r.URL.Path)
		_ = json.NewEncoder(w).Encode(schema.ViewModel{Panel: schema.PanelMintForm, Tld: schema.Tld})
	}))
	defer srv.Close()

	v, err := New(srv.URL).View()
	require.NoError(t, err)
	assert.Equal(t, schema.PanelMintForm, v.Panel)
	assert.Equal(t, ".dom", v.Tld)
}

func TestDomnsCli_MintDomain(t *testing.T) {
	var lock sync.Mutex
	inputs := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/input/domain", "/input/record":
			assert.Equal(t, http.MethodPut, r.Method)
			by, _ := io.ReadAll(r.Body)
			req := schema.ReqInput{}
			assert.NoError(t, json.Unmarshal(by, &req))
			lock.Lock()
			inputs[r.URL.Path] = req.Value
			lock.Unlock()
			_ = json.NewEncoder(w).Encode(schema.ViewModel{})
		case "/mint":
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewEncoder(w).Encode(schema.ViewModel{LastTxUrl: "https://mumbai.polygonscan.com/tx/0x1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	v, err := New(srv.URL).MintDomain("moris", "rec")
	require.NoError(t, err)
	lock.Lock()
	defer lock.Unlock()
	assert.Equal(t, "moris", inputs["/input/domain"])
	assert.Equal(t, "rec", inputs["/input/record"])
	assert.Equal(t, "https://mumbai.polygonscan.com/tx/0x1", v.LastTxUrl)
}

func TestDomnsCli_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(schema.RespErr{Err: schema.ErrNameTooShort.Error(), Kind: schema.UserInputError})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Mint()
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNameTooShort)
	respErr := schema.RespErr{}
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, schema.UserInputError, respErr.Kind)
}

func TestDomnsCli_PlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Domains()
	assert.EqualError(t, err, "resp failed. http code: 500, body: boom")
}

func TestDomnsCli_Domains(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]schema.DomainRecord{{Id: 0, Name: "alice", Record: "hi"}})
	}))
	defer srv.Close()

	records, err := New(srv.URL).Domains()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Name)
}
