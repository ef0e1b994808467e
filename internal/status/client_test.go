package status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "bankid", "name": "BankID", "status": "Major_Outage"},
			{"id": "", "name": "", "status": ""}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []Component{
		{ID: "bankid", Name: "BankID", Status: "major_outage"},
		{ID: "unknown", Name: "Unknown Component", Status: "unknown"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fetch = %+v, want %+v", got, want)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestOperational(t *testing.T) {
	if !(Component{Status: StatusOperational}).Operational() {
		t.Fatal("operational component reported degraded")
	}
	for _, s := range []string{"major_outage", "partial_outage", "degraded_performance", "unknown", ""} {
		if (Component{Status: s}).Operational() {
			t.Fatalf("status %q reported operational", s)
		}
	}
}

func TestTestStepsShape(t *testing.T) {
	steps := TestSteps()
	if len(steps) != 3 {
		t.Fatalf("TestSteps returned %d steps, want 3", len(steps))
	}
	for i, step := range steps {
		if len(step) == 0 {
			t.Fatalf("step %d is empty", i)
		}
		for _, c := range step {
			if c.ID == "" || c.Name == "" || c.Status == "" {
				t.Fatalf("step %d has incomplete component %+v", i, c)
			}
		}
	}
	// Final step restores full health.
	for _, c := range steps[len(steps)-1] {
		if !c.Operational() {
			t.Fatalf("final step leaves %s at %s", c.ID, c.Status)
		}
	}
}
