package app

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/thenoetrevino/tramo/internal/events"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
	tutil "github.com/thenoetrevino/tramo/internal/testutil"
)

func TestNew(t *testing.T) {
	db := tutil.SetupTestDB(t)

	// Create app with no options
	app := New(db)

	if app == nil {
		t.Fatal("Expected app to be created, got nil")
	}
	if app.CourseService == nil {
		t.Error("Expected CourseService to be initialized")
	}
	if app.ModuleService == nil {
		t.Error("Expected ModuleService to be initialized")
	}
	if app.ProjectService == nil {
		t.Error("Expected ProjectService to be initialized")
	}
	if app.ProgressService == nil {
		t.Error("Expected ProgressService to be initialized")
	}
	if app.DB() != db {
		t.Error("Expected DB to return the handle passed to New")
	}
}

func TestMetricsRegistered(t *testing.T) {
	db := tutil.SetupTestDB(t)
	reg := prometheus.NewRegistry()
	app := New(db, WithRegisterer(reg))
	courseID := tutil.CreateTestCourse(t, db, "Metrics")

	_, err := app.ModuleService.CreateModule(context.Background(), moduleservice.CreateModuleRequest{
		CourseID: courseID,
		Title:    "Basics",
	})
	if err != nil {
		t.Fatalf("CreateModule failed: %v", err)
	}

	count, err := testutil.GatherAndCount(reg, "tramo_sequence_operations_total")
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 operations series, got %d", count)
	}
}

func TestClose(t *testing.T) {
	db := tutil.SetupTestDB(t)

	app := New(db)
	if err := app.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got error: %v", err)
	}

	broker := events.NewBroker(1, nil)
	app = New(db, WithEventPublisher(broker))
	if err := app.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got error: %v", err)
	}
	if err := broker.SendEvent(events.Event{}); err == nil {
		t.Error("Expected broker to be closed with the app")
	}
}
