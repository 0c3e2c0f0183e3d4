package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aigate-dev/aigate/internal/scan"
)

func TestSend(t *testing.T) {
	var captured Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&captured)
	}))
	defer server.Close()

	c := New(server.URL)
	if !c.Enabled() {
		t.Fatal("Enabled() = false with URL set")
	}
	msg := Message{Text: "hello", Blocks: sectionBlocks("hello")}
	if err := c.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if captured.Text != "hello" {
		t.Errorf("captured text = %q", captured.Text)
	}
	if len(captured.Blocks) != 1 || captured.Blocks[0].Type != "section" {
		t.Errorf("captured blocks = %+v", captured.Blocks)
	}
}

func TestSend_Disabled(t *testing.T) {
	c := New("")
	if c.Enabled() {
		t.Error("Enabled() = true with empty URL")
	}
	if err := c.Send(context.Background(), Message{Text: "x"}); err != nil {
		t.Errorf("Send on disabled client: %v", err)
	}
}

func TestSend_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte("webhook exploded"))
	}))
	defer server.Close()

	err := New(server.URL).Send(context.Background(), Message{Text: "x"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error = %v", err)
	}
}

func TestBuildScanMessage(t *testing.T) {
	report := &scan.Report{
		Repo:         "acme/widgets",
		Ref:          "#42",
		Status:       scan.StatusCompleted,
		FilesScanned: 5,
		Batches:      2,
		Aggregate: &scan.Aggregate{
			AIProbability: 0.58,
			WorstQuality:  scan.QualityPoor,
		},
		Failures: []string{"High probability the change is AI-generated"},
		Warnings: []string{"Large change without any test updates"},
	}

	msg := BuildScanMessage(report)
	for _, want := range []string{
		"acme/widgets", "#42",
		"AI probability: 58%", "Quality: poor", "5 in 2 batches",
		":x:", "High probability",
		":warning:", "Large change",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("message missing %q:\n%s", want, msg.Text)
		}
	}
	if len(msg.Blocks) == 0 {
		t.Error("message has no blocks")
	}
}

func TestBuildScanMessage_AllPassed(t *testing.T) {
	report := &scan.Report{
		Repo:      "acme/widgets",
		Ref:       "main",
		Status:    scan.StatusCompleted,
		Aggregate: &scan.Aggregate{AIProbability: 0.1, WorstQuality: scan.QualityGood},
	}
	msg := BuildScanMessage(report)
	if !strings.Contains(msg.Text, ":white_check_mark: All rules passed.") {
		t.Errorf("message = %q", msg.Text)
	}
}

func TestBuildScanMessage_PartialNote(t *testing.T) {
	report := &scan.Report{
		Repo:      "acme/widgets",
		Ref:       "#7",
		Status:    scan.StatusPartial,
		Batches:   3,
		Aggregate: &scan.Aggregate{Errored: 1},
	}
	msg := BuildScanMessage(report)
	if !strings.Contains(msg.Text, "1 of 3 batches failed classification") {
		t.Errorf("message = %q", msg.Text)
	}
}

func TestBuildScanMessage_NothingToAnalyze(t *testing.T) {
	report := &scan.Report{
		Repo:   "acme/widgets",
		Ref:    "#7",
		Status: scan.StatusNothingToAnalyze,
	}
	msg := BuildScanMessage(report)
	if !strings.Contains(msg.Text, "Nothing to analyze") {
		t.Errorf("message = %q", msg.Text)
	}
}

func TestBuildFailureMessage(t *testing.T) {
	msg := BuildFailureMessage("acme/widgets", "#3", errors.New("token rejected"))
	if !strings.Contains(msg.Text, "Scan aborted: token rejected") {
		t.Errorf("message = %q", msg.Text)
	}
}
