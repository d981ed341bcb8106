package workflow

import (
	"erp-golang/internal/errs"
	"erp-golang/internal/storage"
)

var statusRank = map[storage.ProcessStatus]int{
	storage.ProcessDraft:    0,
	storage.ProcessActive:   1,
	storage.ProcessArchived: 2,
}

// Transition проверяет переход DRAFT -> ACTIVE -> ARCHIVED. Назад нельзя, повтор того же статуса допустим
func Transition(from, to storage.ProcessStatus) error {
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]

	if !okFrom {
		return errs.Validation("status", "unknown current status "+string(from))
	}
	if !okTo {
		return errs.Validation("status", "unknown status "+string(to))
	}

	if toRank < fromRank {
		return &errs.InvalidStatusTransitionError{Entity: "process config", From: string(from), To: string(to)}
	}

	return nil
}
