package main

import (
	"fmt"
	"time"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	cors "github.com/itsjamie/gin-cors"
	"github.com/swanchain/go-swan-sdk/internal/mockserver"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/routers"
	"github.com/swanchain/go-swan-sdk/util"
	"github.com/urfave/cli/v2"
)

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "Start the mock orchestrator",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Value: ":8085", Usage: "listen address"},
		&cli.StringFlag{Name: "api-key", EnvVars: []string{"SWAN_API_KEY"}, Usage: "api key required at login, empty disables auth"},
		&cli.StringFlag{Name: "signer-key", EnvVars: []string{"MOCK_SIGNER_KEY"}, Usage: "private key signing the contract info"},
		&cli.StringFlag{Name: "payment-contract", Usage: "payment contract address"},
		&cli.StringFlag{Name: "token-contract", Usage: "token contract address"},
		&cli.StringFlag{Name: "rpc-url", Value: "http://127.0.0.1:8545"},
		&cli.Int64Flag{Name: "chain-id", Value: 1337},
	},
	Action: func(cctx *cli.Context) error {
		logs.GetLogger().Info("Start in mock orchestrator mode.")

		options := []mockserver.Option{mockserver.WithAPIKey(cctx.String("api-key"))}
		if key := cctx.String("signer-key"); key != "" {
			options = append(options, mockserver.WithContract(models.ContractDetail{
				PaymentContractAddress: cctx.String("payment-contract"),
				TokenContractAddress:   cctx.String("token-contract"),
				RpcUrl:                 cctx.String("rpc-url"),
				ChainID:                cctx.Int64("chain-id"),
			}, key))
		}
		srv := mockserver.New(options...)

		r := gin.Default()
		r.Use(cors.Middleware(cors.Config{
			Origins:         "*",
			Methods:         "GET, PUT, POST, DELETE",
			RequestHeaders:  "Origin, Authorization, Content-Type",
			ExposedHeaders:  "",
			MaxAge:          50 * time.Second,
			ValidateHeaders: false,
		}))
		pprof.Register(r)

		routers.MockManager(r, srv)

		shutdownChan := make(chan struct{})
		httpStopper, addr, err := util.ServeHttp(r, "mock-orchestrator", cctx.String("listen"))
		if err != nil {
			return fmt.Errorf("failed to start mock-orchestrator endpoint: %w", err)
		}
		logs.GetLogger().Infof("mock orchestrator ready at http://%s", addr)

		finishCh := util.MonitorShutdown(shutdownChan,
			util.ShutdownHandler{Component: "mock-orchestrator", StopFunc: httpStopper},
		)
		<-finishCh

		return nil
	},
}
