package domns

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/domns/schema"
)

// SelectPanel picks the one input panel to show.
func SelectPanel(connected, onRequired bool) schema.Panel {
	switch {
	case !connected:
		return schema.PanelConnectWallet
	case !onRequired:
		return schema.PanelSwitchNetwork
	default:
		return schema.PanelMintForm
	}
}

// WalletLabel shortens an account to 0x1234...abcd.
func WalletLabel(account string) string {
	if account == "" {
		return "Not connected"
	}
	if len(account) <= 10 {
		return account
	}
	return account[:6] + "..." + account[len(account)-4:]
}

func IsPolygon(network string) bool {
	return strings.Contains(network, "Polygon")
}

// MarketplaceLink points at the token page of the listing entry.
func MarketplaceLink(contract common.Address, id int) string {
	return fmt.Sprintf("%s/%s/%d", schema.MarketplaceUrl, contract.Hex(), id)
}

// viewState is what the user typed and saw, it lives only as long as the session.
type viewState struct {
	editing   bool
	domain    string
	record    string
	notice    string
	lastTxUrl string
}

type viewInput struct {
	installed  bool
	session    schema.WalletSession
	onRequired bool
	required   string
	listing    []schema.DomainRecord
	loading    bool
	contract   common.Address
	state      viewState
}

func buildView(in viewInput) schema.ViewModel {
	connected := in.session.Connected()
	items := make([]schema.ListingItem, 0, len(in.listing))
	for _, r := range in.listing {
		items = append(items, schema.ListingItem{
			DomainRecord: r,
			FullName:     r.Name + schema.Tld,
			Link:         MarketplaceLink(in.contract, r.Id),
			Editable:     connected && strings.EqualFold(r.Owner.Hex(), in.session.Account),
		})
	}
	return schema.ViewModel{
		Panel:              SelectPanel(connected, in.onRequired),
		WalletInstalled:    in.installed,
		WalletConnected:    connected,
		Account:            in.session.Account,
		WalletLabel:        WalletLabel(in.session.Account),
		ActiveNetworkLabel: in.session.Network,
		IsPolygon:          IsPolygon(in.session.Network),
		OnRequiredNetwork:  in.onRequired,
		RequiredNetwork:    in.required,
		ShowListing:        connected && len(items) > 0,
		Listing:            items,
		Loading:            in.loading,
		Editing:            in.state.editing,
		Domain:             in.state.domain,
		Record:             in.state.record,
		Tld:                schema.Tld,
		Notice:             in.state.notice,
		LastTxUrl:          in.state.lastTxUrl,
	}
}
