package serverutils

import (
	"doctech-be/internal/constant"
	"doctech-be/internal/dto"
)

func ErrorResponse(message string) dto.ErrorResponse {
	return dto.ErrorResponse{Error: message}
}

// GenericError is the only failure body /query ever shows a client.
func GenericError() dto.ErrorResponse {
	return ErrorResponse(constant.GenericQueryError)
}
