package validations

import (
	"context"

	domainSchedule "github.com/curatorbot/curator/domains/schedule"
	pkgError "github.com/curatorbot/curator/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateReschedule(ctx context.Context, request domainSchedule.RescheduleRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.PostID, validation.Required, validation.Min(1)),
		validation.Field(&request.NewTime, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateDistribute(ctx context.Context, request domainSchedule.DistributeRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Count, validation.Min(0), validation.Max(500)),
		validation.Field(&request.HorizonDays, validation.Required, validation.Min(1), validation.Max(31)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
