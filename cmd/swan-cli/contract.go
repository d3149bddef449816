package main

import (
	"strconv"

	"github.com/swanchain/go-swan-sdk/util"
	"github.com/urfave/cli/v2"
)

var contractCmd = &cli.Command{
	Name:  "contract",
	Usage: "Inspect the payment contracts",
	Subcommands: []*cli.Command{
		contractInfo,
		contractBalance,
	},
}

var contractInfo = &cli.Command{
	Name:  "info",
	Usage: "Show the verified contract addresses",
	Action: func(cctx *cli.Context) error {
		client, err := newClient(cctx, true)
		if err != nil {
			return err
		}
		defer client.Close()

		d := client.Contract.ContractDetail
		data := [][]string{{d.PaymentContractAddress, d.TokenContractAddress, d.RpcUrl, strconv.FormatInt(d.ChainID, 10)}}
		return render(cctx, client.Contract, NewVisualTable([]string{"PAYMENT CONTRACT", "TOKEN CONTRACT", "RPC", "CHAIN ID"}, data, nil))
	},
}

var contractBalance = &cli.Command{
	Name:  "balance",
	Usage: "Show the token balance of the configured wallet",
	Action: func(cctx *cli.Context) error {
		client, err := newClient(cctx, true)
		if err != nil {
			return err
		}
		defer client.Close()

		balance, err := client.Gateway.Balance(util.ReqContext(), client.Config.WALLET.Address)
		if err != nil {
			return err
		}
		amount := balance.String()
		return render(cctx, map[string]string{"wallet": client.Config.WALLET.Address, "balance": amount},
			NewVisualTable([]string{"WALLET", "BALANCE"}, [][]string{{client.Config.WALLET.Address, amount}}, nil))
	},
}
