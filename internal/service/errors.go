package service

import (
	"errors"

	"intern_hub_backend/internal/util"

	"gorm.io/gorm"
)

// notFound 把 gorm 的记录不存在转换为带资源名的 ErrNotFound
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NotFoundError(resource)
	}
	return err
}
