package apperr

type Code string

const (
	CodeUnknown       Code = "UNKNOWN"
	CodeInvalidArg    Code = "INVALID_ARGUMENT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeNotAMember    Code = "NOT_A_MEMBER"
	CodeNotSender     Code = "NOT_SENDER"
	CodeUnauthorized  Code = "UNAUTHENTICATED"
	CodeTransient     Code = "TRANSIENT_STORE_ERROR"
	CodePrecondition  Code = "FAILED_PRECONDITION"
)
