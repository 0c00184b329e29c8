package util

const TimeFormat = "2006-01-02 15:04:05"

const (
	GradebookLog  = "log"
	GradebookHTTP = "http"
	GradebookAMQP = "amqp"
)

// GradebookComponent 成绩册中的组件名
const GradebookComponent = "game"
