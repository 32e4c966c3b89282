package stores

import (
	"path/filepath"
	"testing"
)

func TestMaintenance_RunSweepsCanceledSubscriptions(t *testing.T) {
	store, err := NewSQLiteStoreSimple(filepath.Join(t.TempDir(), "maint.sqlite"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	sub, err := store.Subscribe("user-1")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	sub.Cancel()

	maint := NewMaintenance(store)
	maint.run()

	if removed := store.SweepSubscribers(); removed != 0 {
		t.Errorf("Expected run to have swept the subscription, got %d left", removed)
	}
}

func TestMaintenance_DoubleStartFails(t *testing.T) {
	store, err := NewSQLiteStoreSimple(filepath.Join(t.TempDir(), "maint.sqlite"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	maint := NewMaintenance(store)
	if err := maint.Start("@every 1h"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer maint.Stop()

	if err := maint.Start("@every 1h"); err == nil {
		t.Error("Expected second start to fail")
	}
}

func TestMaintenance_BadScheduleFails(t *testing.T) {
	store, err := NewSQLiteStoreSimple(filepath.Join(t.TempDir(), "maint.sqlite"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	maint := NewMaintenance(store)
	if err := maint.Start("not a schedule"); err == nil {
		t.Error("Expected invalid schedule to fail")
	}
}
