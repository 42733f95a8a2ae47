package apistrings

const (
	/// Basic User Related Strings
	UserNotFound    = "user or account does not exist"
	UserNotVerified = "you have not verified your account yet"

	/// Core Functionality Error
	ServerError    = "a server error occurred, please try again later"
	InvalidRequest = "invalid request, please check submitted information"

	/// Wallet Related Strings
	UserNoWallet    = "user does not have a wallet account created"
	DuplicateWallet = "user already has a wallet account"

	/// Subscription Related Strings
	SubscriptionNotFound = "subscription does not exist"
	SubscriptionInactive = "subscription is not active"

	/// Disbursement Related Strings
	DisbursementNotFound  = "disbursement does not exist"
	DisbursementDuplicate = "a disbursement already exists for this distribution"
	DisbursementBadState  = "disbursement cannot be processed in its current state"
	NoActiveSubscribers   = "property has no active subscribers to distribute to"

	/// Schedule Related Strings
	ScheduleNotFound     = "disbursement schedule does not exist"
	ScheduleBadFrequency = "schedule frequency must be monthly, quarterly or annually"

	/// Voucher Related Strings
	VoucherKycRequired = "identity verification is required before issuing vouchers"
	VoucherMalformed   = "voucher payload is malformed"
	VoucherExpired     = "voucher has expired"
	VoucherBadSig      = "voucher signature is invalid"
	VoucherReplayed    = "voucher has already been redeemed"
)
