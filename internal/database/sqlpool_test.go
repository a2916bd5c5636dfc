package database

import (
	"testing"
)

func TestOpenSQL_UnknownDriver(t *testing.T) {
	_, err := OpenSQL("no-such-driver", "dsn", DefaultPoolOptions)
	if err == nil {
		t.Fatal("expected error for unregistered driver")
	}
}

func TestCloseSQL_Nil(t *testing.T) {
	if err := CloseSQL(nil); err != nil {
		t.Errorf("expected nil error for nil handle, got %v", err)
	}
}

func TestDefaultPoolOptions(t *testing.T) {
	if DefaultPoolOptions.PingTimeout <= 0 {
		t.Error("expected a positive ping timeout")
	}
	if DefaultPoolOptions.MaxIdleConns > DefaultPoolOptions.MaxOpenConns {
		t.Errorf("idle connections %d exceed open connections %d",
			DefaultPoolOptions.MaxIdleConns, DefaultPoolOptions.MaxOpenConns)
	}
}
