package models

type HardwareConfig struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Region      []string `json:"region"`
	Price       string   `json:"price"`
	Status      string   `json:"status"`
}

type HardwareList struct {
	Hardware []HardwareConfig `json:"hardware"`
}

type PremadeImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ContractDetail struct {
	PaymentContractAddress string `json:"client_contract_address"`
	TokenContractAddress   string `json:"swan_token_contract_address"`
	RpcUrl                 string `json:"rpc_url"`
	ChainID                int64  `json:"chain_id"`
}

type ContractInfo struct {
	ContractDetail ContractDetail `json:"contract_detail"`
	Signature      string         `json:"signature"`
}
