package dto

import (
	"salon/shared/constant"
	"salon/shared/model"
	"salon/shared/timezone"
)

// Metadata is the audit block embedded in responses, timestamps in the app timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt: timezone.Format(source.CreatedAt, constant.DateFormat),
		CreatedBy: source.CreatedBy,
	}

	if source.ModifiedAt.IsZero() {
		return
	}

	m.ModifiedAt = timezone.Format(source.ModifiedAt, constant.DateFormat)
	m.ModifiedBy = source.ModifiedBy
}
