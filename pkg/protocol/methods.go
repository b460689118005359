package protocol

// The eight wire methods. The table is closed: any other method name yields
// a MethodNotFoundError.
const (
	MethodServerInfo        = "server.info"
	MethodServerInitialize  = "server.initialize"
	MethodToolList          = "tool.list"
	MethodToolExecute       = "tool.execute"
	MethodResourceList      = "resource.list"
	MethodResourceRead      = "resource.read"
	MethodPromptList        = "prompt.list"
	MethodPromptGetMessages = "prompt.get_messages"
)

// Methods returns the complete method table in a stable order.
func Methods() []string {
	return []string{
		MethodServerInfo,
		MethodServerInitialize,
		MethodToolList,
		MethodToolExecute,
		MethodResourceList,
		MethodResourceRead,
		MethodPromptList,
		MethodPromptGetMessages,
	}
}

// IsMethod reports whether m names one of the eight defined methods.
func IsMethod(m string) bool {
	switch m {
	case MethodServerInfo, MethodServerInitialize,
		MethodToolList, MethodToolExecute,
		MethodResourceList, MethodResourceRead,
		MethodPromptList, MethodPromptGetMessages:
		return true
	}
	return false
}
