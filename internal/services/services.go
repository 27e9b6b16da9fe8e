package services

import (
	stderrors "errors"

	"github.com/meera/leitbox/internal/storage"
)

func isQuotaErr(err error) bool {
	return stderrors.Is(err, storage.ErrQuotaExceeded)
}
