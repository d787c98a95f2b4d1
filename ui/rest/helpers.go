package rest

import (
	pkgError "github.com/curatorbot/curator/pkg/error"
	"github.com/curatorbot/curator/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a package error to the uniform response envelope,
// falling back to a 500 for anything that is not a GenericError.
func respondError(c *fiber.Ctx, err error) error {
	if generic, ok := err.(pkgError.GenericError); ok {
		return c.Status(generic.StatusCode()).JSON(utils.ResponseData{
			Status:  generic.StatusCode(),
			Code:    generic.ErrCode(),
			Message: generic.Error(),
		})
	}
	return c.Status(500).JSON(utils.ResponseData{
		Status:  500,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: err.Error(),
	})
}

func respondOK(c *fiber.Ctx, message string, results any) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: results,
	})
}
