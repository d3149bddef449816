package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swanchain/go-swan-sdk/api"
	"github.com/swanchain/go-swan-sdk/internal/mockserver"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/util"
)

func postJSON(t *testing.T, url string, body interface{}) util.BasicResponse {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out util.BasicResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestMockManagerDrivesDeployment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	MockManager(r, mockserver.New())
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	ctx := context.Background()
	raw, err := client.CreateTask(ctx, api.CreateTaskRequest{
		Duration:     3600,
		CfgName:      "C1ae.small",
		Region:       "global",
		Wallet:       "0x7791f48931DB81668854921fA70bFf0eB85B8211",
		JobSourceURI: "https://data.example/source.json",
	})
	require.NoError(t, err)
	var created models.TaskCreationResult
	require.NoError(t, json.Unmarshal(raw, &created))
	taskUUID := created.Task.Uuid

	assigned := postJSON(t, srv.URL+"/admin/tasks/"+taskUUID+"/assign", map[string]string{"cp_account_address": "0xcp", "name": "cp-1"})
	require.True(t, assigned.IsSuccess())
	var job map[string]string
	require.NoError(t, json.Unmarshal(assigned.Data, &job))

	published := postJSON(t, srv.URL+"/admin/tasks/"+taskUUID+"/publish", map[string]string{"job_uuid": job["job_uuid"], "url": "https://app.example"})
	require.True(t, published.IsSuccess())

	raw, err = client.DeploymentInfo(ctx, taskUUID)
	require.NoError(t, err)
	var info models.TaskDeploymentInfo
	require.NoError(t, json.Unmarshal(raw, &info))
	require.Len(t, info.Jobs, 1)
	uri, ok := info.Jobs[0].RealURI()
	assert.True(t, ok)
	assert.Equal(t, "https://app.example", uri)

	missing := postJSON(t, srv.URL+"/admin/tasks/nope/assign", map[string]string{"cp_account_address": "0xcp"})
	assert.False(t, missing.IsSuccess())
}

func TestHostInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	MockManager(r, mockserver.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/host/info", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp util.BasicResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var host models.HostInfo
	require.NoError(t, json.Unmarshal(resp.Data, &host))
	assert.NotEmpty(t, host.OperatingSystem)
	assert.Positive(t, host.CPUCores)
}
