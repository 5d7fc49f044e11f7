package apperr

var (
	// Account directory
	ErrAccountNotFound = NotFound("account not found")
	ErrNameTaken       = AlreadyExists("that name is already taken")
	ErrWrongPassword   = Unauthorized("wrong credentials")
	ErrNotFriends      = New(CodePrecondition, "users are not friends")
	ErrRequestPending  = AlreadyExists("friend request already pending")
	ErrAlreadyFriends  = AlreadyExists("users are already friends")

	// Conversations
	ErrConversationNotFound = NotFound("conversation not found")
	ErrGroupNameTaken       = AlreadyExists("that group name is already taken")
	ErrEmptyGroupName       = InvalidArg("group name must contain at least one letter or digit")
	ErrNoMembers            = InvalidArg("a group needs at least one member besides the creator")
	ErrNotAMember           = NotAMember("you are not a member of this conversation")
	ErrCannotLeaveDirect    = New(CodePrecondition, "a direct conversation cannot be left")

	// Messages
	ErrMessageNotFound = NotFound("message not found")
	ErrNotSender       = NotSender("only the sender can delete a message")
	ErrEmptyMessage    = InvalidArg("message body is empty")

	// Subscriptions
	ErrSubscriptionClosed = New(CodePrecondition, "subscription is closed")
)
