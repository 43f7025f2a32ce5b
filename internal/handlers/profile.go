package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"postboard/internal/repository"
	"postboard/internal/response"
	"postboard/internal/services"
)

const avatarField = "profile_image"

type ProfileHandler struct {
	profiles *repository.ProfileRepository
	avatars  *services.AvatarStore
	maxBytes int64
}

func NewProfileHandler(profiles *repository.ProfileRepository, avatars *services.AvatarStore, maxBytes int64) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, avatars: avatars, maxBytes: maxBytes}
}

func avatarFail(message string) *response.Error {
	return response.InvalidField(avatarField, message)
}

// UploadAvatar stores the first file of a multipart body as the user's
// avatar, named <user id>.<ext>.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Abort(c, err)
		return
	}

	// room for the form overhead around one file at the limit
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Abort(c, avatarFail("file too large"))
			return
		}
		response.Abort(c, response.Malformed("invalid multipart data"))
		return
	}
	defer form.RemoveAll()

	header := firstFile(form)
	if header == nil {
		response.Abort(c, avatarFail("no file provided"))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		response.Abort(c, avatarFail("invalid content-type"))
		return
	}
	ext, err := services.ExtensionFor(contentType)
	if err != nil {
		response.Abort(c, avatarFail("unsupported file type"))
		return
	}
	if header.Size > h.maxBytes {
		response.Abort(c, avatarFail("file too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	defer file.Close()

	name, err := h.avatars.Save(user.ID, ext, file)
	if err != nil {
		response.Abort(c, response.Internal(err))
		return
	}
	if err := h.profiles.UpdateImage(c.Request.Context(), user.ID, name); err != nil {
		response.Abort(c, response.Internal(err))
		return
	}

	response.Success(c, gin.H{"profile_image": name})
}

// firstFile prefers the profile_image field, then the first file field by
// name.
func firstFile(form *multipart.Form) *multipart.FileHeader {
	if files := form.File[avatarField]; len(files) > 0 {
		return files[0]
	}
	names := make([]string, 0, len(form.File))
	for name := range form.File {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if files := form.File[name]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}
