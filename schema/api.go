package schema

const (
	ListingCacheKey = "domns-listing"

	NoticeNameTooShort  = "Domain must be at least 3 characters long"
	NoticeTxFailed      = "Transaction failed! Please try again"
	NoticeInstallWallet = "MetaMask is not installed. Please install it to use this app: https://metamask.io/download.html"
	NoticeGetWallet     = "Get MetaMask -> https://metamask.io/"
)

// Panel is the single input panel shown to the user, panels are mutually exclusive.
type Panel string

const (
	PanelConnectWallet Panel = "connect_wallet"
	PanelSwitchNetwork Panel = "switch_network"
	PanelMintForm      Panel = "mint_form"
)

type ViewModel struct {
	Panel              Panel         `json:"panel"`
	WalletInstalled    bool          `json:"walletInstalled"`
	WalletConnected    bool          `json:"walletConnected"`
	Account            string        `json:"account"`
	WalletLabel        string        `json:"walletLabel"`
	ActiveNetworkLabel string        `json:"activeNetworkLabel"`
	IsPolygon          bool          `json:"isPolygon"`
	OnRequiredNetwork  bool          `json:"onRequiredNetwork"`
	RequiredNetwork    string        `json:"requiredNetwork"`
	ShowListing        bool          `json:"showListing"`
	Listing            []ListingItem `json:"listing"`
	Loading            bool          `json:"loading"`
	Editing            bool          `json:"editing"`
	Domain             string        `json:"domain"`
	Record             string        `json:"record"`
	Tld                string        `json:"tld"`
	Notice             string        `json:"notice,omitempty"` // blocking alert, cleared by dismiss
	LastTxUrl          string        `json:"lastTxUrl,omitempty"`
}

type ListingItem struct {
	DomainRecord
	FullName string `json:"fullName"` // name + tld
	Link     string `json:"link"`
	Editable bool   `json:"editable"` // owner is the connected account
}

type ReqInput struct {
	Value string `json:"value"`
}

type RespErr struct {
	Err  string    `json:"error"`
	Kind ErrorKind `json:"kind,omitempty"`
}

func (r RespErr) Error() string {
	return r.Err
}

func (r RespErr) Unwrap() error {
	return ErrorOf(r.Err)
}
