// Package callback 提供 Eino Callback 日志支持
package callback

import (
	"context"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

type startKey struct{}

// Logger 日志回调处理器
// 记录模型调用的耗时、token 用量与错误
type Logger struct {
	logger      *zap.Logger
	EnableDebug bool // 是否记录每次调用的开始事件
}

// NewLogger 创建日志回调处理器
func NewLogger(logger *zap.Logger, enableDebug bool) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("eino"), EnableDebug: enableDebug}
}

// OnStart 组件执行开始时调用
func (l *Logger) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if l.EnableDebug {
		fields := runFields(info)
		if in := model.ConvCallbackInput(input); in != nil {
			fields = append(fields, zap.Int("messages", len(in.Messages)))
		}
		l.logger.Debug("Component started", fields...)
	}
	return context.WithValue(ctx, startKey{}, time.Now())
}

// OnEnd 组件执行成功结束时调用
func (l *Logger) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	fields := append(runFields(info), zap.Duration("duration", elapsed(ctx)))
	if out := model.ConvCallbackOutput(output); out != nil {
		if out.Message != nil {
			fields = append(fields, zap.Int("response_length", len(out.Message.Content)))
		}
		if out.TokenUsage != nil {
			fields = append(fields,
				zap.Int("prompt_tokens", out.TokenUsage.PromptTokens),
				zap.Int("completion_tokens", out.TokenUsage.CompletionTokens))
		}
	}
	l.logger.Info("Component finished", fields...)
	return ctx
}

// OnError 组件执行出错时调用
func (l *Logger) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	fields := append(runFields(info), zap.Duration("duration", elapsed(ctx)), zap.Error(err))
	l.logger.Error("Component failed", fields...)
	return ctx
}

// OnStartWithStreamInput 流式输入开始时调用
func (l *Logger) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return context.WithValue(ctx, startKey{}, time.Now())
}

// OnEndWithStreamOutput 流式输出结束时调用
func (l *Logger) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	l.logger.Info("Component stream finished", append(runFields(info), zap.Duration("duration", elapsed(ctx)))...)
	return ctx
}

func runFields(info *callbacks.RunInfo) []zap.Field {
	if info == nil {
		return nil
	}
	return []zap.Field{
		zap.String("name", info.Name),
		zap.String("type", info.Type),
		zap.String("component", string(info.Component)),
	}
}

func elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startKey{}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// SetupGlobalCallbacks 设置全局回调
func SetupGlobalCallbacks(logger *zap.Logger, enableDebug bool) {
	callbacks.AppendGlobalHandlers(NewLogger(logger, enableDebug))
	if logger != nil {
		logger.Info("Eino global callbacks registered", zap.Bool("debug", enableDebug))
	}
}
