package diag

import (
	"context"
	"errors"
	"os"
	"time"

	"flachtex/pkg/ferrors"
)

// Code 是最小错误分类代码。
// 仅用于日志/指标汇总，与退出码解耦。
type Code string

const (
	CodeUnknown   Code = "unknown"
	CodeIO        Code = "io"
	CodeCancel    Code = "cancel"
	CodeCycle     Code = "cycle"
	CodeOverlap   Code = "overlap"
	CodeMalformed Code = "malformed"
	CodeInvariant Code = "invariant"
	CodeRecursion Code = "recursion"
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	if errors.Is(err, ferrors.ErrImportCycle) {
		return CodeCycle
	}
	if errors.Is(err, ferrors.ErrOverlappingMatches) || errors.Is(err, ferrors.ErrSkipMismatch) {
		return CodeOverlap
	}
	if errors.Is(err, ferrors.ErrMalformedEnvelope) || errors.Is(err, ferrors.ErrInvalidArgs) {
		return CodeMalformed
	}
	if errors.Is(err, ferrors.ErrIndexOutOfRange) {
		return CodeInvariant
	}
	if errors.Is(err, ferrors.ErrMacroRecursionLimit) {
		return CodeRecursion
	}
	var perr *os.PathError
	if errors.As(err, &perr) || errors.Is(err, ferrors.ErrFileNotFound) {
		return CodeIO
	}
	return CodeUnknown
}

// ExitCode 将分类代码映射到 CLI 退出码；成功路径不经过这里，直接返回 0。
func ExitCode(c Code) int {
	switch c {
	case CodeCycle, CodeOverlap:
		return 2
	case CodeMalformed:
		return 3
	default:
		return 1
	}
}

// NowUTC 返回 RFC3339 UTC 时间字符串（用于结构化日志字段 ts）。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
