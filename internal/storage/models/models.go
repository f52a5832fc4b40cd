package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// NurseProfile is the candidate master record. Extracted resume fields only
// fill profile columns that are still empty; manual edits always win.
type NurseProfile struct {
	ProfileID         string    `gorm:"type:char(36);primaryKey"`
	FirstName         string    `gorm:"type:varchar(100)"`
	LastName          string    `gorm:"type:varchar(100)"`
	Email             string    `gorm:"type:varchar(255);uniqueIndex:idx_nurse_profiles_email_unique"`
	Phone             string    `gorm:"type:varchar(50)"`
	Bio               string    `gorm:"type:text"`
	Address           string    `gorm:"type:varchar(255)"`
	GraduationYear    *int      `gorm:"type:int"`
	YearsOfExperience *int      `gorm:"type:int"`
	ProfilePictureURL string    `gorm:"type:varchar(1024)"`
	CreatedAt         time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt         time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (NurseProfile) TableName() string {
	return "nurse_profiles"
}

// Resume is the current resume snapshot for a profile: one active row per
// profile, replaced wholesale on re-upload. The decoded text rides along so
// entities can be re-extracted after a parser upgrade without re-decoding
// the blob.
type Resume struct {
	ResumeID      string         `gorm:"type:char(36);primaryKey"`
	ProfileID     string         `gorm:"type:char(36);not null;uniqueIndex:idx_resumes_profile_unique"`
	FileName      string         `gorm:"type:varchar(255)"`
	ObjectKey     string         `gorm:"type:varchar(512)"`
	FileURL       string         `gorm:"type:varchar(1024)"`
	FileMD5       string         `gorm:"type:char(32);index:idx_resumes_file_md5"`
	ContentType   string         `gorm:"type:varchar(100)"`
	FileSize      int64          `gorm:"type:bigint"`
	ExtractedText string         `gorm:"type:longtext"`
	ParsedData    datatypes.JSON `gorm:"type:json"`
	Confidence    int            `gorm:"type:int"`
	Source        string         `gorm:"type:varchar(20)"`
	ParserVersion string         `gorm:"type:varchar(50)"`
	CreatedAt     time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt     time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Profile *NurseProfile `gorm:"foreignKey:ProfileID;references:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Resume) TableName() string {
	return "resumes"
}

// NurseExperience rows are cleared and re-inserted per profile on every parse.
// StartDate falls back to 1900-01-01 when the resume gave no start; EndDate is
// null for ongoing roles.
type NurseExperience struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	ProfileID   string          `gorm:"type:char(36);not null;index:idx_nurse_experience_profile"`
	Employer    string          `gorm:"type:varchar(255)"`
	Position    string          `gorm:"type:varchar(255)"`
	Type        string          `gorm:"type:varchar(32);default:'employment'"`
	Department  string          `gorm:"type:varchar(255)"`
	StartDate   *datatypes.Date `gorm:"type:date"`
	EndDate     *datatypes.Date `gorm:"type:date"`
	Description string          `gorm:"type:text"`
	Location    string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Profile *NurseProfile `gorm:"foreignKey:ProfileID;references:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (NurseExperience) TableName() string {
	return "nurse_experience"
}

type NurseEducation struct {
	ID                  uint64          `gorm:"primaryKey;autoIncrement"`
	ProfileID           string          `gorm:"type:char(36);not null;index:idx_nurse_education_profile"`
	Institution         string          `gorm:"type:varchar(255)"`
	Degree              string          `gorm:"type:varchar(255)"`
	FieldOfStudy        string          `gorm:"type:varchar(255)"`
	Year                *int            `gorm:"type:int"`
	InstitutionLocation string          `gorm:"type:varchar(255)"`
	StartDate           *datatypes.Date `gorm:"type:date"`
	EndDate             *datatypes.Date `gorm:"type:date"`
	Status              string          `gorm:"type:varchar(100)"`
	CreatedAt           time.Time       `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Profile *NurseProfile `gorm:"foreignKey:ProfileID;references:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (NurseEducation) TableName() string {
	return "nurse_education"
}

type NurseSkill struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID string    `gorm:"type:char(36);not null;index:idx_nurse_skills_profile"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Profile *NurseProfile `gorm:"foreignKey:ProfileID;references:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (NurseSkill) TableName() string {
	return "nurse_skills"
}

type NurseCertification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID string    `gorm:"type:char(36);not null;index:idx_nurse_certifications_profile"`
	Type      string    `gorm:"type:varchar(100);not null"`
	Number    string    `gorm:"type:varchar(100)"`
	Score     string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Profile *NurseProfile `gorm:"foreignKey:ProfileID;references:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (NurseCertification) TableName() string {
	return "nurse_certifications"
}

// StringToJSON converts a raw JSON string to datatypes.JSON.
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

// MapToJSON marshals a map into datatypes.JSON.
func MapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
