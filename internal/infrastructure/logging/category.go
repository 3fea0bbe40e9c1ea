package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Game            Category = "Game"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	WebSocket       Category = "WebSocket"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Game
	Lifecycle SubCategory = "Lifecycle"
	Invites   SubCategory = "Invites"
	Voting    SubCategory = "Voting"

	// WebSocket
	Subscription SubCategory = "Subscription"
	Broadcast    SubCategory = "Broadcast"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomID       ExtraKey = "RoomId"
	UserID       ExtraKey = "UserId"
	RoundIndex   ExtraKey = "RoundIndex"
	ErrorMessage ExtraKey = "ErrorMessage"
)
