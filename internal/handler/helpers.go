package handler

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/model"
	"backoffice/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// maxAttachmentSize is the upload cap for meeting and project attachments.
const maxAttachmentSize = 2 << 20 // 2MB

var allowedAttachmentExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}

func respondValidationErrors(c *gin.Context, errs *multierror.Error) {
	msgs := make([]string, 0, len(errs.Errors))
	for _, e := range errs.Errors {
		msgs = append(msgs, e.Error())
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": msgs})
}

// lookupUsers resolves ids against the user directory. It reports which ids
// have no user row; a non-nil error means the lookup itself failed.
func lookupUsers(ctx context.Context, repo repository.UserRepositoryInterface, ids []uint) ([]model.User, []uint, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, nil, err
	}

	found := make(map[uint]struct{}, len(users))
	for _, u := range users {
		found[u.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return users, missing, nil
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func allowedAttachmentExt(filename string) bool {
	return allowedAttachmentExts[strings.ToLower(path.Ext(filename))]
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// today returns midnight of the current local day, the reference point for
// deadline validation.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
