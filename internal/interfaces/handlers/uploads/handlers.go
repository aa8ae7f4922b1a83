package uploads

import (
	uploadsvc "yardsale-board/internal/application/uploads"
	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

type uploadRequest struct {
	FileName string `json:"fileName"`
}

// UploadPhoto POST /api/upload-photo returns { uploadUrl, publicUrl, path }
func (h *Handlers) UploadPhoto(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	res, err := h.Service.GetSignedUploadURL(c.UserContext(), req.FileName)
	if err != nil {
		if response.StatusFor(err) == fiber.StatusBadRequest {
			return response.FromError(c, err)
		}
		return response.Error(c, "Failed to generate upload URL", fiber.StatusInternalServerError)
	}
	return response.OK(c, res)
}
