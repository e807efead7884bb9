package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/utils"
)

func sampleRequest() Request {
	return Request{
		Academics: models.Academics{
			Gender: "M", SSCPercent: 67, SSCBoard: "Others",
			HSCPercent: 91, HSCBoard: "Others", HSCStream: "Commerce",
			DegreePercent: 58, DegreeType: "Sci&Tech", WorkExperience: "No",
			EtestPercent: 55, Specialisation: "Mkt&HR", MBAPercent: 58.8,
		},
		Skills: []string{"Python"},
	}
}

func TestScore_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"placement": map[string]any{"placed": true, "probability": 0.82, "confidence": 0.9},
			"salary": map[string]any{
				"expected_salary": 300000.0,
				"salary_range":    map[string]any{"min": 250000.0, "max": 350000.0},
			},
			"skill_analysis": map[string]any{
				"skill_gaps":            []any{},
				"recommendations":       []any{"Practice aptitude tests"},
				"overall_score":         72.0,
				"improvement_potential": "moderate",
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	res, err := c.Score(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if !res.Placement.Placed || res.Placement.Probability != 0.82 {
		t.Fatalf("placement = %+v", res.Placement)
	}
	if res.Salary == nil || res.Salary.ExpectedSalary == nil || *res.Salary.ExpectedSalary != 300000 {
		t.Fatalf("salary = %+v", res.Salary)
	}
	if len(res.SkillAnalysis.Recommendations) != 1 {
		t.Fatalf("skill analysis = %+v", res.SkillAnalysis)
	}

	// The payload stays flat and identity-free.
	if _, ok := gotBody["gender"]; !ok {
		t.Fatalf("academic fields must be top-level: %v", gotBody)
	}
	for _, forbidden := range []string{"name", "enrollmentNumber", "userId", "id", "placementStatus"} {
		if _, ok := gotBody[forbidden]; ok {
			t.Fatalf("%s must not be sent to the scorer", forbidden)
		}
	}
}

func TestScore_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.Score(context.Background(), sampleRequest())
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected CodeUnavailable, got %v", err)
	}
}

func TestScore_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.Score(context.Background(), sampleRequest())
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected CodeUnavailable, got %v", err)
	}
}

func TestScore_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-block
	}))
	defer func() { close(block); srv.Close() }()

	c := NewHTTPClient(srv.URL, 30*time.Millisecond, nil)
	_, err := c.Score(context.Background(), sampleRequest())
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("timeout should be CodeUnavailable, got %v", err)
	}
}

func TestScore_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	_, err := c.Score(context.Background(), sampleRequest())
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected CodeUnavailable, got %v", err)
	}
}
