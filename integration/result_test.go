package integration

import (
	"errors"
	"testing"
)

func TestResult(t *testing.T) {
	if got := Success("abc"); !got.OK() || got.Value != "abc" {
		t.Errorf("unexpected success result %+v", got)
	}
	err := errors.New("boom")
	if got := Failure(err); got.OK() || !errors.Is(got.Err, err) {
		t.Errorf("unexpected failure result %+v", got)
	}
	if !(Result{}).OK() {
		t.Error("expected zero result to be ok")
	}
}
