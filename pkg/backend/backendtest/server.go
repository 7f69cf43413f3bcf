// Package backendtest provides an in-memory implementation of the scraping
// backend's HTTP contract for tests.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"webslayer-go/pkg/models"
)

// Server is a scriptable fake backend. Job status responses are served from
// per-job scripts: each status request consumes the next entry and the last
// entry repeats.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	nextIDs     []string
	seq         int
	started     []models.JobRequest
	scripts     map[string][]models.JobStatusResponse
	statusCalls map[string]int
	reportCalls map[string]int
	reports     map[string]models.Report
	schemas     map[string]models.Schema
	projects    map[string]models.Project
	startErr    *failure
}

type failure struct {
	status int
	detail any
}

// New starts a fake backend; it is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		scripts:     make(map[string][]models.JobStatusResponse),
		statusCalls: make(map[string]int),
		reportCalls: make(map[string]int),
		reports:     make(map[string]models.Report),
		schemas:     make(map[string]models.Schema),
		projects:    make(map[string]models.Project),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()

	r.POST("/scrape/start", s.startJob)
	r.GET("/scrape/:job_id", s.jobStatus)

	r.GET("/reports/", s.listReports)
	r.GET("/reports/:name", s.getReport)
	r.DELETE("/reports/:name", s.deleteReport)

	r.GET("/schema/", s.listSchemas)
	r.POST("/schema/", s.upsertSchema)
	r.GET("/schema/:name", s.getSchema)
	r.DELETE("/schema/:name", s.deleteSchema)

	r.GET("/projects", s.listProjects)
	r.POST("/projects", s.upsertProject)
	r.GET("/projects/:name", s.getProject)
	r.DELETE("/projects/:name", s.deleteProject)

	return r
}

// QueueJobIDs fixes the ids handed out by subsequent job submissions.
func (s *Server) QueueJobIDs(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextIDs = append(s.nextIDs, ids...)
}

// ScriptJob sets the status responses served for jobID, in order.
func (s *Server) ScriptJob(jobID string, statuses ...models.JobStatusResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[jobID] = statuses
}

// FailStart makes job submissions fail with the given status and detail.
// A nil detail clears the failure.
func (s *Server) FailStart(status int, detail any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if detail == nil {
		s.startErr = nil
		return
	}
	s.startErr = &failure{status: status, detail: detail}
}

func (s *Server) AddReport(r models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.Name] = r
}

func (s *Server) AddSchema(sc models.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[sc.Name] = sc
}

func (s *Server) AddProject(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.Name] = p
}

// Started returns the job requests received so far.
func (s *Server) Started() []models.JobRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.JobRequest(nil), s.started...)
}

// StatusCalls returns how many status requests jobID has received.
func (s *Server) StatusCalls(jobID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls[jobID]
}

// ReportCalls returns how many times the report name has been fetched.
func (s *Server) ReportCalls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportCalls[name]
}

func notFound(c *gin.Context, kind, name string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("%s '%s' not found", kind, name)})
}

func (s *Server) startJob(c *gin.Context) {
	var req models.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{
			{"loc": []string{"body"}, "msg": err.Error(), "type": "value_error"},
		}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		c.JSON(s.startErr.status, gin.H{"detail": s.startErr.detail})
		return
	}

	var id string
	if len(s.nextIDs) > 0 {
		id, s.nextIDs = s.nextIDs[0], s.nextIDs[1:]
	} else {
		s.seq++
		id = fmt.Sprintf("job-%d", s.seq)
	}
	s.started = append(s.started, req)
	if _, ok := s.scripts[id]; !ok {
		s.scripts[id] = []models.JobStatusResponse{{Status: models.JobStatusAccepted}}
	}
	c.JSON(http.StatusOK, models.JobCreationResponse{JobID: id, Message: "Scraping job started"})
}

func (s *Server) jobStatus(c *gin.Context) {
	id := c.Param("job_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	script, ok := s.scripts[id]
	if !ok || len(script) == 0 {
		notFound(c, "Job", id)
		return
	}
	n := s.statusCalls[id]
	s.statusCalls[id] = n + 1
	if n >= len(script) {
		n = len(script) - 1
	}
	c.JSON(http.StatusOK, script[n])
}

func (s *Server) listReports(c *gin.Context) {
	schema := c.Query("schema_name")

	s.mu.Lock()
	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if schema != "" && r.SchemaName != schema {
			continue
		}
		out = append(out, r)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return reportTime(out[i]).After(reportTime(out[j]))
	})
	c.JSON(http.StatusOK, out)
}

func reportTime(r models.Report) time.Time {
	if r.Timestamp == nil {
		return time.Time{}
	}
	return *r.Timestamp
}

func (s *Server) getReport(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportCalls[name]++
	r, ok := s.reports[name]
	if !ok {
		notFound(c, "Report", name)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) deleteReport(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[name]; !ok {
		notFound(c, "Report", name)
		return
	}
	delete(s.reports, name)
	c.Status(http.StatusNoContent)
}

func (s *Server) listSchemas(c *gin.Context) {
	s.mu.Lock()
	names := make([]string, 0, len(s.schemas))
	for n := range s.schemas {
		names = append(names, n)
	}
	s.mu.Unlock()
	sort.Strings(names)
	c.JSON(http.StatusOK, names)
}

func (s *Server) upsertSchema(c *gin.Context) {
	var sc models.Schema
	if err := c.ShouldBindJSON(&sc); err != nil || sc.Name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid schema"})
		return
	}
	s.AddSchema(sc)
	c.JSON(http.StatusOK, sc)
}

func (s *Server) getSchema(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schemas[name]
	if !ok {
		notFound(c, "Schema", name)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) deleteSchema(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schemas[name]; !ok {
		notFound(c, "Schema", name)
		return
	}
	delete(s.schemas, name)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (s *Server) listProjects(c *gin.Context) {
	s.mu.Lock()
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	c.JSON(http.StatusOK, out)
}

func (s *Server) upsertProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil || p.Name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid project"})
		return
	}
	now := time.Now().UTC()

	s.mu.Lock()
	if prev, ok := s.projects[p.Name]; ok {
		p.CreatedAt = prev.CreatedAt
	} else {
		p.CreatedAt = &now
	}
	p.UpdatedAt = &now
	s.projects[p.Name] = p
	s.mu.Unlock()

	c.JSON(http.StatusOK, p)
}

func (s *Server) getProject(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[name]
	if !ok {
		notFound(c, "Project", name)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	name := c.Param("name")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[name]; !ok {
		notFound(c, "Project", name)
		return
	}
	delete(s.projects, name)
	c.Status(http.StatusNoContent)
}
