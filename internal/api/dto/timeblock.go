package dto

import "delivery-planner-service/internal/domain"

type TimeBlockDTO struct {
	FromTime int64  `json:"from_time"`
	ToTime   *int64 `json:"to_time,omitempty"`
	Asap     bool   `json:"asap,omitempty"`
	Anytime  bool   `json:"anytime,omitempty"`
}

func (t TimeBlockDTO) ToDomain() domain.TimeBlock {
	return domain.TimeBlock{
		FromTime: t.FromTime,
		ToTime:   t.ToTime,
		Asap:     t.Asap,
		Anytime:  t.Anytime,
	}
}

func TimeBlockFromDomain(t domain.TimeBlock) TimeBlockDTO {
	return TimeBlockDTO{
		FromTime: t.FromTime,
		ToTime:   t.ToTime,
		Asap:     t.Asap,
		Anytime:  t.Anytime,
	}
}
