// Package judgetest runs an in-memory judge API for tests.
package judgetest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"ojspace/internal/common/http/middleware"
	"ojspace/internal/judgeclient"
	"ojspace/pkg/errors"
	"ojspace/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// Request is what the server saw of one call.
type Request struct {
	Method         string
	Path           string
	RequestID      string
	IdempotencyKey string
	Authorization  string
}

// DebugFunc computes the verdict of a debug run.
type DebugFunc func(req judgeclient.DebugRequest) (judgeclient.DebugResult, error)

// Server is a fake judge. Handlers follow the judge API envelope.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	problems    map[int64]judgeclient.Problem
	submissions map[string]*submission
	nextID      int64
	initial     string
	debugFn     DebugFunc
	submitErr   error
	envelopeErr bool
	gate        *gate
	requests    []Request
	debugCalls  int
	submitCalls int
}

type gate struct {
	ch   chan struct{}
	once sync.Once
}

func (g *gate) open() {
	g.once.Do(func() { close(g.ch) })
}

type submission struct {
	detail   judgeclient.SubmissionDetail
	statuses []string
}

// NewServer starts a fake judge. Close it with Close.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		problems:    make(map[int64]judgeclient.Problem),
		submissions: make(map[string]*submission),
		nextID:      1,
		initial:     "pending",
		debugFn:     EchoDebug,
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.TraceContext(), s.record())
	r.POST("/submissions/debug", s.handleDebug)
	r.POST("/submissions", s.handleSubmit)
	r.GET("/submissions", s.handleList)
	r.GET("/submissions/:id", s.handleGetSubmission)
	r.GET("/problems/:id", s.handleGetProblem)

	s.Server = httptest.NewServer(r)
	return s
}

// EchoDebug echoes the input as output and judges it against the expected output.
func EchoDebug(req judgeclient.DebugRequest) (judgeclient.DebugResult, error) {
	correct := strings.TrimSpace(req.Input) == strings.TrimSpace(req.ExpectedOutput)
	st := "accepted"
	if !correct {
		st = "wrong_answer"
	}
	return judgeclient.DebugResult{
		Status:         st,
		TimeUsed:       1,
		MemoryUsed:     1.5,
		Output:         req.Input,
		ExpectedOutput: req.ExpectedOutput,
		IsCorrect:      correct,
	}, nil
}

// AddProblem registers a problem for GET /problems/{id}.
func (s *Server) AddProblem(p judgeclient.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems[p.ID] = p
}

// OnDebug replaces the debug verdict function.
func (s *Server) OnDebug(fn DebugFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugFn = fn
}

// FailSubmit makes every submit fail with err until cleared with nil.
func (s *Server) FailSubmit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitErr = err
}

// EnvelopeErrors makes failures answer HTTP 200 with the error only in the envelope.
func (s *Server) EnvelopeErrors(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelopeErr = on
}

// SetNextID sets the id the next submission receives.
func (s *Server) SetNextID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

// SetInitialStatus sets the status new submissions start in.
func (s *Server) SetInitialStatus(st string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initial = st
}

// Script sets the statuses GET /submissions/{id} walks through, one per call.
// The last status sticks.
func (s *Server) Script(id judgeclient.SubmissionID, statuses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.submissions[string(id)]; ok {
		sub.statuses = statuses
	}
}

// Hold blocks debug and submit handlers after they are counted until release is called.
func (s *Server) Hold() (release func()) {
	g := &gate{ch: make(chan struct{})}
	s.mu.Lock()
	s.gate = g
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if s.gate == g {
			s.gate = nil
		}
		s.mu.Unlock()
		g.open()
	}
}

// Close releases held handlers and shuts the server down.
func (s *Server) Close() {
	s.mu.Lock()
	g := s.gate
	s.gate = nil
	s.mu.Unlock()
	if g != nil {
		g.open()
	}
	s.Server.Close()
}

// DebugCalls returns the number of debug requests received.
func (s *Server) DebugCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugCalls
}

// SubmitCalls returns the number of submit requests received.
func (s *Server) SubmitCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitCalls
}

// Requests returns every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// WaitFor polls cond until it holds or the timeout passes.
func WaitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			RequestID:      middleware.RequestID(c),
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
			Authorization:  c.GetHeader("Authorization"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	s.mu.Lock()
	envelopeOnly := s.envelopeErr
	s.mu.Unlock()
	if envelopeOnly {
		response.ErrorWithStatus(c, http.StatusOK, err)
		return
	}
	response.Error(c, err)
}

func (s *Server) wait(c *gin.Context) {
	s.mu.Lock()
	g := s.gate
	s.mu.Unlock()
	if g == nil {
		return
	}
	select {
	case <-g.ch:
	case <-c.Request.Context().Done():
	}
}

func (s *Server) handleDebug(c *gin.Context) {
	var req judgeclient.DebugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	s.mu.Lock()
	s.debugCalls++
	fn := s.debugFn
	s.mu.Unlock()
	s.wait(c)

	result, err := fn(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	response.Success(c, result)
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req judgeclient.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	s.mu.Lock()
	s.submitCalls++
	failure := s.submitErr
	s.mu.Unlock()
	s.wait(c)

	if failure != nil {
		s.fail(c, failure)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		s.fail(c, errors.RequiredError("code"))
		return
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	key := strconv.FormatInt(id, 10)
	s.submissions[key] = &submission{detail: judgeclient.SubmissionDetail{
		SubmissionRecord: judgeclient.SubmissionRecord{
			SubmissionID: judgeclient.SubmissionID(key),
			ProblemID:    req.ProblemID,
			Language:     req.Language,
			Status:       s.initial,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		},
		Code: req.Code,
	}}
	s.mu.Unlock()

	response.Success(c, gin.H{"submission_id": id})
}

func (s *Server) handleGetSubmission(c *gin.Context) {
	s.mu.Lock()
	sub, ok := s.submissions[c.Param("id")]
	var detail judgeclient.SubmissionDetail
	if ok {
		if len(sub.statuses) > 0 {
			sub.detail.Status = sub.statuses[0]
			if len(sub.statuses) > 1 {
				sub.statuses = sub.statuses[1:]
			}
		}
		detail = sub.detail
	}
	s.mu.Unlock()

	if !ok {
		s.fail(c, errors.New(errors.SubmissionNotFound).WithDetail("submission_id", c.Param("id")))
		return
	}
	response.Success(c, detail)
}

func (s *Server) handleList(c *gin.Context) {
	problemID, _ := strconv.ParseInt(c.Query("problem_id"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	s.mu.Lock()
	items := make([]judgeclient.SubmissionRecord, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if problemID > 0 && sub.detail.ProblemID != problemID {
			continue
		}
		items = append(items, sub.detail.SubmissionRecord)
	}
	s.mu.Unlock()

	// newest first
	sort.Slice(items, func(i, j int) bool {
		a, _ := strconv.ParseInt(string(items[i].SubmissionID), 10, 64)
		b, _ := strconv.ParseInt(string(items[j].SubmissionID), 10, 64)
		return a > b
	})

	total := int64(len(items))
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	response.SuccessWithPagination(c, items[start:end], total, page, pageSize)
}

func (s *Server) handleGetProblem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid problem id")
		return
	}
	s.mu.Lock()
	p, ok := s.problems[id]
	s.mu.Unlock()
	if !ok {
		s.fail(c, errors.New(errors.ProblemNotFound).WithDetail("problem_id", id))
		return
	}
	response.Success(c, p)
}
