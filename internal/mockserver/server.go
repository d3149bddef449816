// Package mockserver is an in-memory orchestrator speaking the same envelope and
// endpoints as the real service. It backs the lifecycle tests and the
// mock-orchestrator command.
package mockserver

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"github.com/swanchain/go-swan-sdk/util"
	"github.com/swanchain/go-swan-sdk/wallet"
)

type taskRecord struct {
	task   models.Task
	orders []models.ConfigOrder
	jobs   []models.Job
	cps    []models.ComputingProvider
}

type Server struct {
	lk       sync.RWMutex
	apiKey   string
	token    string
	newUUID  func() string
	hardware []models.HardwareConfig
	images   map[string]string
	tasks    map[string]*taskRecord
	order    []string

	contract  models.ContractDetail
	signerKey string
}

type Option func(*Server)

// WithAPIKey requires a login with key before any other call.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

func WithUUIDGenerator(gen func() string) Option {
	return func(s *Server) {
		s.newUUID = gen
	}
}

func WithHardware(list []models.HardwareConfig) Option {
	return func(s *Server) {
		s.hardware = list
	}
}

func WithPremadeImage(name, repoURI string) Option {
	return func(s *Server) {
		s.images[name] = repoURI
	}
}

// WithContract publishes detail signed by signerKey on the contract-info endpoint.
func WithContract(detail models.ContractDetail, signerKey string) Option {
	return func(s *Server) {
		s.contract = detail
		s.signerKey = signerKey
	}
}

func DefaultHardware() []models.HardwareConfig {
	return []models.HardwareConfig{
		{ID: 0, Name: "C1ae.small", Description: "CPU only, 2 vCPU, 2 GiB", Type: constants.HardwareTypeCPU,
			Region: []string{"North Carolina-US", "Quebec-CA"}, Price: "0.0", Status: constants.HardwareAvailable},
		{ID: 1, Name: "C1ae.medium", Description: "CPU only, 4 vCPU, 4 GiB", Type: constants.HardwareTypeCPU,
			Region: []string{"North Carolina-US"}, Price: "1.0", Status: constants.HardwareAvailable},
		{ID: 12, Name: "G1ae.small", Description: "Nvidia 3080, 4 vCPU, 8 GiB", Type: constants.HardwareTypeGPU,
			Region: []string{"Quebec-CA"}, Price: "10.0", Status: constants.HardwareUnavailable},
	}
}

func New(options ...Option) *Server {
	s := &Server{
		newUUID:  func() string { return uuid.NewString() },
		hardware: DefaultHardware(),
		images:   map[string]string{},
		tasks:    map[string]*taskRecord{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Handler builds the gin engine serving every orchestrator endpoint.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	s.Register(r)
	return r
}

func (s *Server) Register(r gin.IRouter) {
	r.POST(constants.API_LOGIN_BY_API_KEY, s.login)

	authed := r.Group("", s.auth)
	authed.GET(constants.API_HARDWARE_LIST, s.hardwareList)
	authed.GET(constants.API_PREMADE_IMAGE, s.premadeImage)
	authed.GET(constants.API_CONTRACT_INFO, s.contractInfo)
	authed.POST(constants.API_SOURCE_URI, s.sourceURI)
	authed.POST(constants.API_CREATE_TASK, s.createTask)
	authed.POST(constants.API_PAYMENT_VALIDATE, s.validatePayment)
	authed.POST(constants.API_RENEW_TASK, s.renewTask)
	authed.POST(constants.API_TERMINATE_TASK, s.terminateTask)
	authed.GET(constants.API_TASK_DEPLOYMENT_INFO+":uuid", s.deploymentInfo)
	authed.GET(constants.API_TASK_LIST, s.taskList)
}

func (s *Server) auth(c *gin.Context) {
	if s.apiKey == "" {
		c.Next()
		return
	}
	s.lk.RLock()
	token := s.token
	s.lk.RUnlock()
	if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, util.CreateErrorResponse(util.AuthError))
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		ApiKey string `json:"api_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError))
		return
	}
	if s.apiKey != "" && req.ApiKey != s.apiKey {
		c.JSON(http.StatusUnauthorized, util.CreateErrorResponse(util.AuthError, "invalid api key"))
		return
	}
	s.lk.Lock()
	if s.token == "" {
		s.token = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	token := s.token
	s.lk.Unlock()
	c.JSON(http.StatusOK, util.CreateSuccessResponse(token))
}

func (s *Server) hardwareList(c *gin.Context) {
	s.lk.RLock()
	defer s.lk.RUnlock()
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.HardwareList{Hardware: s.hardware}))
}

func (s *Server) premadeImage(c *gin.Context) {
	name := c.Query("name")
	s.lk.RLock()
	repo, ok := s.images[name]
	s.lk.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, util.CreateErrorResponse(util.NotFound, fmt.Sprintf("premade image %s not found", name)))
		return
	}
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.PremadeImage{Name: name, URL: repo}))
}

func (s *Server) contractInfo(c *gin.Context) {
	if s.signerKey == "" {
		c.JSON(http.StatusNotFound, util.CreateErrorResponse(util.NotFound, "contract info not configured"))
		return
	}
	sig, err := wallet.SignContractDetail(s.signerKey, s.contract)
	if err != nil {
		logs.GetLogger().Errorf("Failed sign contract detail, error: %v", err)
		c.JSON(http.StatusInternalServerError, util.CreateErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.ContractInfo{ContractDetail: s.contract, Signature: sig}))
}

func (s *Server) sourceURI(c *gin.Context) {
	var req struct {
		RepoURI    string `json:"repo_uri"`
		RepoBranch string `json:"repo_branch"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RepoURI == "" {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError, "repo_uri is required"))
		return
	}
	cid := strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceURL, []byte(req.RepoURI+"#"+req.RepoBranch)).String(), "-", "")
	c.JSON(http.StatusOK, util.CreateSuccessResponse(gin.H{
		"job_source_uri": "https://plutotest.acl.swanipfs.com/ipfs/Qm" + cid,
	}))
}

func (s *Server) findHardware(name string) (models.HardwareConfig, bool) {
	for _, hw := range s.hardware {
		if hw.Name == name {
			return hw, true
		}
	}
	return models.HardwareConfig{}, false
}

func (s *Server) createTask(c *gin.Context) {
	var req struct {
		Duration     int64  `json:"duration"`
		CfgName      string `json:"cfg_name"`
		Region       string `json:"region"`
		StartIn      int64  `json:"start_in"`
		Wallet       string `json:"wallet"`
		JobSourceURI string `json:"job_source_uri"`
		PreferredCp  string `json:"preferred_cp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError))
		return
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	hw, ok := s.findHardware(req.CfgName)
	if !ok {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.InvalidInstanceType))
		return
	}
	if req.Wallet == "" || req.JobSourceURI == "" {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError, "wallet and job_source_uri are required"))
		return
	}

	now := time.Now().Unix()
	taskUUID := s.newUUID()
	var preferred []string
	if req.PreferredCp != "" {
		preferred = strings.Split(req.PreferredCp, ",")
	}
	task := models.Task{
		Uuid:         taskUUID,
		Name:         "task-" + taskUUID,
		Status:       constants.TaskInitialized,
		RefundWallet: req.Wallet,
		StartAt:      now + req.StartIn,
		EndAt:        now + req.StartIn + req.Duration,
		CreatedAt:    now,
		UpdatedAt:    now,
		TaskDetail: models.TaskDetail{
			Duration:     int(req.Duration),
			Hardware:     hw.Name,
			JobSourceURI: req.JobSourceURI,
			PricePerHour: hw.Price,
			StartIn:      int(req.StartIn),
			Requirements: models.TaskRequirements{
				HardwareID:      hw.ID,
				HardwareType:    hw.Type,
				Region:          req.Region,
				PreferredCpList: preferred,
			},
		},
	}
	order := models.ConfigOrder{
		Uuid:      s.newUUID(),
		TaskUuid:  taskUUID,
		OrderType: constants.OrderTypeCreation,
		Status:    constants.OrderPendingPaymentConfirm,
		Duration:  int(req.Duration),
		Region:    req.Region,
		ConfigID:  hw.ID,
		StartIn:   int(req.StartIn),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if taskUUID != "" {
		s.tasks[taskUUID] = &taskRecord{task: task, orders: []models.ConfigOrder{order}}
		s.order = append(s.order, taskUUID)
	}
	logs.GetLogger().Infof("task created, uuid: %s, hardware: %s", taskUUID, hw.Name)
	c.JSON(http.StatusOK, util.CreateSuccessResponse(gin.H{"task": task, "config_order": order}))
}

func (s *Server) taskNotFound(c *gin.Context, code int, taskUUID string) {
	c.JSON(http.StatusNotFound, util.CreateErrorResponse(code, fmt.Sprintf("task %s not found", taskUUID)))
}

func (s *Server) validatePayment(c *gin.Context) {
	var req struct {
		TxHash   string `json:"tx_hash"`
		TaskUuid string `json:"task_uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TxHash == "" {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError, "tx_hash and task_uuid are required"))
		return
	}

	s.lk.Lock()
	defer s.lk.Unlock()
	rec, ok := s.tasks[req.TaskUuid]
	if !ok {
		s.taskNotFound(c, util.PaymentNotFound, req.TaskUuid)
		return
	}
	now := time.Now().Unix()
	for i := range rec.orders {
		if rec.orders[i].Status == constants.OrderPendingPaymentConfirm {
			rec.orders[i].Status = constants.OrderPaymentConsumed
			rec.orders[i].TxHash = req.TxHash
			rec.orders[i].UpdatedAt = now
		}
	}
	if rec.task.Status == constants.TaskInitialized {
		rec.task.Status = constants.TaskPaid
		rec.task.UpdatedAt = now
	}
	c.JSON(http.StatusOK, util.CreateSuccessResponse(gin.H{"task": rec.task, "config_order": rec.orders[len(rec.orders)-1]}))
}

func (s *Server) renewTask(c *gin.Context) {
	var req struct {
		TaskUuid string `json:"task_uuid"`
		Duration int64  `json:"duration"`
		TxHash   string `json:"tx_hash"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Duration <= 0 || req.TxHash == "" {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError, "task_uuid, duration and tx_hash are required"))
		return
	}

	s.lk.Lock()
	defer s.lk.Unlock()
	rec, ok := s.tasks[req.TaskUuid]
	if !ok {
		s.taskNotFound(c, util.TaskNotFound, req.TaskUuid)
		return
	}
	now := time.Now().Unix()
	order := models.ConfigOrder{
		Uuid:      s.newUUID(),
		TaskUuid:  req.TaskUuid,
		OrderType: constants.OrderTypeRenewal,
		Status:    constants.OrderPaymentConsumed,
		TxHash:    req.TxHash,
		Duration:  int(req.Duration),
		Region:    rec.task.TaskDetail.Requirements.Region,
		ConfigID:  rec.task.TaskDetail.Requirements.HardwareID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.orders = append(rec.orders, order)
	rec.task.EndAt += req.Duration
	rec.task.TaskDetail.Duration += int(req.Duration)
	rec.task.UpdatedAt = now
	c.JSON(http.StatusOK, util.CreateSuccessResponse(gin.H{"task": rec.task, "config_order": order}))
}

func (s *Server) terminateTask(c *gin.Context) {
	var req struct {
		TaskUuid string `json:"task_uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError))
		return
	}

	s.lk.Lock()
	defer s.lk.Unlock()
	rec, ok := s.tasks[req.TaskUuid]
	if !ok {
		s.taskNotFound(c, util.TaskNotFound, req.TaskUuid)
		return
	}
	rec.task.Status = constants.TaskTerminated
	rec.task.UpdatedAt = time.Now().Unix()
	for i := range rec.jobs {
		rec.jobs[i].Status = constants.JobCancelled
	}
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.TaskTerminationMessage{
		Retryable:  false,
		TaskStatus: rec.task.Status,
	}))
}

func (s *Server) deploymentInfo(c *gin.Context) {
	taskUUID := c.Param("uuid")
	s.lk.RLock()
	defer s.lk.RUnlock()
	rec, ok := s.tasks[taskUUID]
	if !ok {
		s.taskNotFound(c, util.TaskNotFound, taskUUID)
		return
	}
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.TaskDeploymentInfo{
		Task:               rec.task,
		Jobs:               rec.jobs,
		ComputingProviders: rec.cps,
		ConfigOrders:       rec.orders,
	}))
}

func (s *Server) taskList(c *gin.Context) {
	var q struct {
		Wallet string `form:"wallet"`
		Page   int    `form:"page"`
		Size   int    `form:"size"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, util.CreateErrorResponse(util.JsonError, err.Error()))
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = constants.DEFAULT_TASK_PAGE_SIZE
	}

	s.lk.RLock()
	var owned []models.Task
	for _, id := range s.order {
		if rec := s.tasks[id]; strings.EqualFold(rec.task.RefundWallet, q.Wallet) {
			owned = append(owned, rec.task)
		}
	}
	s.lk.RUnlock()
	sort.SliceStable(owned, func(i, j int) bool { return owned[i].CreatedAt > owned[j].CreatedAt })

	total := len(owned)
	start := (q.Page - 1) * q.Size
	end := start + q.Size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, util.CreateSuccessResponse(models.TaskList{
		List:      owned[start:end],
		Page:      q.Page,
		Size:      q.Size,
		Total:     total,
		TotalPage: (total + q.Size - 1) / q.Size,
	}))
}
