package system

import "testing"

func TestMigrateCmd_UpToDate(t *testing.T) {
	ctx := setupTestContext(t)
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Errorf("MigrateCmd.Run() error = %v", err)
	}
}

func TestMigrateCmd_Uninitialized(t *testing.T) {
	ctx := newUninitializedContext(t)
	if err := (&MigrateCmd{}).Run(ctx); err == nil {
		t.Error("expected migrate to fail before init")
	}
}
