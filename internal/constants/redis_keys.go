package constants

import "time"

// Redis key layout: app:{module}:{entity}[:{id}]
const (
	// KeyRawFileMD5Set tracks MD5s of uploaded resume files per subject (SET).
	// Format: app:resume:dedup_set:{nurseID}
	KeyRawFileMD5Set = "app:resume:dedup_set:%s"

	// KeyParsedRecordCache maps a file MD5 to the serialized parsed record
	// (STRING). Format: app:resume:parsed:{md5}
	KeyParsedRecordCache = "app:resume:parsed:%s"

	// MD5RecordTTL bounds how long dedup entries and cached records live.
	MD5RecordTTL = 30 * 24 * time.Hour
)
