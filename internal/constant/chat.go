package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)
