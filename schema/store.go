package schema

var (
	// wallet
	WalletAuthBucket  = "wallet-auth-bucket"  // key: origin, val: authorized account address
	WalletChainBucket = "wallet-chain-bucket" // key: chainId, val: json.marshal(Chain); chains added by wallet_addEthereumChain
)
