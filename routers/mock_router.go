package routers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/swanchain/go-swan-sdk/build"
	"github.com/swanchain/go-swan-sdk/internal/mockserver"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/util"
)

type assignRequest struct {
	CpAccountAddress string `json:"cp_account_address"`
	Name             string `json:"name"`
}

type publishRequest struct {
	JobUuid string `json:"job_uuid"`
	URL     string `json:"url"`
}

// MockManager mounts the orchestrator api next to the admin routes that drive
// a task through bidding and deployment by hand.
func MockManager(r gin.IRouter, srv *mockserver.Server) {
	srv.Register(r)

	admin := r.Group("/admin")
	admin.GET("/host/info", getHostInfo)
	admin.POST("/tasks/:uuid/assign", func(c *gin.Context) {
		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, util.CreateErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}
		jobUUID, err := srv.AssignJob(c.Param("uuid"), models.ComputingProvider{
			CpAccountAddress: req.CpAccountAddress,
			Name:             req.Name,
		})
		if err != nil {
			c.JSON(http.StatusNotFound, util.CreateErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusOK, util.CreateSuccessResponse(map[string]string{"job_uuid": jobUUID}))
	})
	admin.POST("/tasks/:uuid/publish", func(c *gin.Context) {
		var req publishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, util.CreateErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}
		if err := srv.PublishURL(c.Param("uuid"), req.JobUuid, req.URL); err != nil {
			c.JSON(http.StatusNotFound, util.CreateErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusOK, util.CreateSuccessResponse(nil))
	})
}

func getHostInfo(c *gin.Context) {
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.HostInfo{
		Version:         build.UserVersion(),
		OperatingSystem: runtime.GOOS,
		Architecture:    runtime.GOARCH,
		CPUCores:        runtime.NumCPU(),
	}))
}
