package constants

type ContextKey string

const (
	AppKey    ContextKey = "app"
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	ActorKey  ContextKey = "actor"
	LoggerKey ContextKey = "logger"
)
