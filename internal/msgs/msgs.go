package msgs

const (
	MsgOperationFailed         = "operation failed"
	MsgOperationSuccessful     = "operation successful"
	MsgUserCreatedSuccessfully = "user created successfully"
	MsgUserDeletedSuccessfully = "user deleted successfully"
	MsgYouMustLoginFirst       = "you must login first"
)
