package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 引用的会话、队列记录或风格档案不存在
	ErrNotFound = errors.New("record not found")
	// ErrStorageUnavailable 存储不可达
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrForeignKeyViolation 引用了不存在的父记录
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrInvalidStateTransition 队列记录已处于终态
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvalidStatus 未知的状态值
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidArgument 参数不合法
	ErrInvalidArgument = errors.New("invalid argument")
)

// translate 将驱动层错误归类为仓库错误，并附加操作上下文
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrForeignKeyViolation),
		errors.Is(err, ErrInvalidStateTransition),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrStorageUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, ErrForeignKeyViolation)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case isUnavailable(err):
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUnavailable 判断是否为连接不可用或数据库被锁定
func isUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "connection refused")
}
