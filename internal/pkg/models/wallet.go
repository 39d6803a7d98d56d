package models

// VaultInfo is the derived on-chain identity of an organization's
// operational wallet
type VaultInfo struct {
	MultisigAddress string `json:"multisig_address"`
	VaultAddress    string `json:"vault_address"`
}
