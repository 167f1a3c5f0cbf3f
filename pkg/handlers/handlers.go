package handlers

// handlers 包按功能域拆分：
// - base.go: HandlerService 及其依赖
// - errors.go: 错误到 HTTP 状态码的统一映射
// - check_handlers.go: 考试名额查询 API
// - health_handlers.go: 健康检查、监控任务状态和 404
// - middleware.go: 通用辅助函数
