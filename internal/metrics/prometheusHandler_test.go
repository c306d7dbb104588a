package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpStatusRecorder(t *testing.T) {
	t.Run("records explicit status", func(t *testing.T) {
		rec := &HttpStatusRecorder{ResponseWriter: httptest.NewRecorder(), Status: http.StatusOK}
		var w http.ResponseWriter = rec

		w.WriteHeader(http.StatusNotFound)
		if rec.Status != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", rec.Status, http.StatusNotFound)
		}
	})

	t.Run("defaults to 200 without WriteHeader", func(t *testing.T) {
		rec := &HttpStatusRecorder{ResponseWriter: httptest.NewRecorder(), Status: http.StatusOK}
		var w http.ResponseWriter = rec

		if _, err := w.Write([]byte("ok")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if rec.Status != http.StatusOK {
			t.Errorf("Status = %d, want %d", rec.Status, http.StatusOK)
		}
	})
}
