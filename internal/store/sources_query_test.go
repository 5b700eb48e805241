package store

import (
	"strings"
	"testing"
)

func TestTouchSourceFetchSuccess(t *testing.T) {
	sqlStr, args, err := touchSourceFetchQuery(7, true).ToSql()
	if err != nil {
		t.Fatalf("ToSql() returned error: %v", err)
	}

	if !strings.Contains(sqlStr, "last_fetched = NOW()") {
		t.Errorf("fetch timestamp not advanced: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "last_success = NOW()") {
		t.Errorf("success timestamp not advanced on success: %s", sqlStr)
	}
	if len(args) != 1 {
		t.Errorf("got %d args, want 1 (source id)", len(args))
	}
}

func TestTouchSourceFetchFailureKeepsLastSuccess(t *testing.T) {
	sqlStr, _, err := touchSourceFetchQuery(7, false).ToSql()
	if err != nil {
		t.Fatalf("ToSql() returned error: %v", err)
	}

	if !strings.Contains(sqlStr, "last_fetched = NOW()") {
		t.Errorf("fetch timestamp must advance even on failure: %s", sqlStr)
	}
	if strings.Contains(sqlStr, "last_success") {
		t.Errorf("failed fetch must leave last_success untouched: %s", sqlStr)
	}
}
