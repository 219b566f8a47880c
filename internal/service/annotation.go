package service

import (
	"fmt"
	"strings"

	"github.com/yudadh/dokumen-service/internal/models"
)

// Reviewer annotations are routed between tiers with a tag prefix. The write
// table names the tier an annotation is addressed to (the tier below its
// author), while the read table names the tag a viewer is allowed to see.
// The two tables are deliberately not mirror images: adminSD authors notes
// for students but reads notes tagged [adminSD], which only adminSMP writes.
var annotationWriteTags = map[models.UserRole]string{
	models.RoleStudent:         "[siswa]",
	models.RoleElementaryAdmin: "[siswa]",
	models.RoleMiddleAdmin:     "[adminSD]",
	models.RoleDistrictAdmin:   "[adminSMP]",
}

var annotationReadTags = map[models.UserRole]string{
	models.RoleStudent:         "[siswa]",
	models.RoleElementaryAdmin: "[adminSD]",
	models.RoleMiddleAdmin:     "[adminSD]",
	models.RoleDistrictAdmin:   "[adminDisdik]",
}

// TagAnnotation prefixes a freshly authored annotation with the author role's
// write tag.
func TagAnnotation(role models.UserRole, text string) string {
	return fmt.Sprintf("%s %s", annotationWriteTags[role], text)
}

// ExtractAnnotation returns the annotation body when the stored text is
// addressed to the viewer's read tag. Annotations tagged for another tier are
// silently withheld (nil), never an error.
func ExtractAnnotation(role models.UserRole, stored string) *string {
	tag, ok := annotationReadTags[role]
	if !ok {
		return nil
	}
	if !strings.HasPrefix(stored, tag) {
		return nil
	}
	body := strings.TrimSpace(strings.TrimPrefix(stored, tag))
	return &body
}
