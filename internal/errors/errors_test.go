package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := ErrNotFound.Wrap(fmt.Errorf("job 4 already paid"))

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrForbidden))
	assert.Equal(t, "not found", err.Error())
	assert.Equal(t, "job 4 already paid", Cause(err))
}

func TestDomainError_NestedCauseStillMatches(t *testing.T) {
	inner := ErrIntegrity.Wrap(fmt.Errorf("credit of profile 2 modified no rows"))
	outer := ErrTransferFailed.Wrap(inner)

	assert.True(t, stderrors.Is(outer, ErrTransferFailed))
	assert.True(t, stderrors.Is(outer, ErrIntegrity))
	assert.Equal(t, ErrTransferFailed.Message, outer.Error())

	var de *DomainError
	assert.True(t, stderrors.As(outer, &de))
	assert.Equal(t, CodeTransferFailed, de.Code)
	assert.Equal(t, "credit of profile 2 modified no rows", Cause(outer))
}

func TestDomainError_Withf(t *testing.T) {
	err := ErrDepositLimitExceeded.Withf("limit is %s", "250.00")
	assert.Equal(t, "limit is 250.00", err.Error())
	assert.True(t, stderrors.Is(err, ErrDepositLimitExceeded))
	assert.Equal(t, "deposit exceeds 25% of outstanding jobs to pay", ErrDepositLimitExceeded.Message)
}

func TestCause_PlainError(t *testing.T) {
	assert.Equal(t, "boom", Cause(fmt.Errorf("boom")))
	assert.Equal(t, "", Cause(nil))
}
