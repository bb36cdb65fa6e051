package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable          = "enable"
	fieldDeletedAt       = "deleted_at"
	fieldUpdatedAt       = "updated_at"
	fieldVerified        = "verified"
	fieldProfileImageKey = "profile_image_key"
)

// ProfileImageKeyField is exported for services that patch the profile image
// reference through Update.
const ProfileImageKeyField = fieldProfileImageKey
