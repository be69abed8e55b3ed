package results

import (
	"errors"
	"testing"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[int, error](3)
	if !ok.IsSuccess() || ok.IsFailure() {
		t.Fatalf("expected success only, got %+v", ok)
	}
	if *ok.Success != 3 {
		t.Errorf("Success = %d, want 3", *ok.Success)
	}

	failErr := errors.New("nope")
	bad := FailureResult[int, error](failErr)
	if bad.IsSuccess() || !bad.IsFailure() {
		t.Fatalf("expected failure only, got %+v", bad)
	}
	if !errors.Is(*bad.Failure, failErr) {
		t.Errorf("Failure = %v, want %v", *bad.Failure, failErr)
	}

	var empty OperationResult[int, error]
	if empty.IsSuccess() || empty.IsFailure() {
		t.Errorf("zero value should be neither success nor failure")
	}
}
