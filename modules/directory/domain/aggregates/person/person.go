package person

import (
	"strconv"
	"strings"
)

// Record carries the attributes of one directory row as read from the source table.
type Record struct {
	ServiceAgency            string
	OrganizationType         string
	OrganizationName         string
	OrganizationAbbreviation string
	ParentOrganization       string
	Portfolio                string
	Name                     string
	RankTitle                string
	Position                 string
	PositionType             string
	Status                   string
	Email                    string
	Phone                    string
	Location                 string
	Building                 string
	MissionArea              string
	KeyPrograms              string
	PageNumber               int
	Section                  string
	LastUpdated              string
	Notes                    string
}

// Normalize trims every cell and applies the enumeration fallbacks.
// Service values outside the known set become Unknown; position type and status
// fall back only when blank.
func (r Record) Normalize() Record {
	out := Record{
		ServiceAgency:            string(ParseServiceAgency(r.ServiceAgency)),
		OrganizationType:         strings.TrimSpace(r.OrganizationType),
		OrganizationName:         strings.TrimSpace(r.OrganizationName),
		OrganizationAbbreviation: strings.TrimSpace(r.OrganizationAbbreviation),
		ParentOrganization:       strings.TrimSpace(r.ParentOrganization),
		Portfolio:                strings.TrimSpace(r.Portfolio),
		Name:                     strings.TrimSpace(r.Name),
		RankTitle:                strings.TrimSpace(r.RankTitle),
		Position:                 strings.TrimSpace(r.Position),
		PositionType:             string(ParsePositionType(r.PositionType)),
		Status:                   string(ParseStatus(r.Status)),
		Email:                    strings.TrimSpace(r.Email),
		Phone:                    strings.TrimSpace(r.Phone),
		Location:                 strings.TrimSpace(r.Location),
		Building:                 strings.TrimSpace(r.Building),
		MissionArea:              strings.TrimSpace(r.MissionArea),
		KeyPrograms:              strings.TrimSpace(r.KeyPrograms),
		PageNumber:               r.PageNumber,
		Section:                  strings.TrimSpace(r.Section),
		LastUpdated:              strings.TrimSpace(r.LastUpdated),
		Notes:                    strings.TrimSpace(r.Notes),
	}
	return out
}

// Person is one immutable personnel record.
type Person struct {
	id                       string
	serviceAgency            ServiceAgency
	organizationType         string
	organizationName         string
	organizationAbbreviation string
	parentOrganization       string
	portfolio                string
	name                     string
	rankTitle                string
	position                 string
	positionType             PositionType
	status                   Status
	email                    string
	phone                    string
	location                 string
	building                 string
	missionArea              string
	keyPrograms              string
	pageNumber               int
	section                  string
	lastUpdated              string
	notes                    string
}

// New builds a Person from a record. The record is normalized first.
func New(id string, r Record) Person {
	n := r.Normalize()
	return Person{
		id:                       id,
		serviceAgency:            ServiceAgency(n.ServiceAgency),
		organizationType:         n.OrganizationType,
		organizationName:         n.OrganizationName,
		organizationAbbreviation: n.OrganizationAbbreviation,
		parentOrganization:       n.ParentOrganization,
		portfolio:                n.Portfolio,
		name:                     n.Name,
		rankTitle:                n.RankTitle,
		position:                 n.Position,
		positionType:             PositionType(n.PositionType),
		status:                   Status(n.Status),
		email:                    n.Email,
		phone:                    n.Phone,
		location:                 n.Location,
		building:                 n.Building,
		missionArea:              n.MissionArea,
		keyPrograms:              n.KeyPrograms,
		pageNumber:               n.PageNumber,
		section:                  n.Section,
		lastUpdated:              n.LastUpdated,
		notes:                    n.Notes,
	}
}

func (p Person) ID() string                       { return p.id }
func (p Person) ServiceAgency() ServiceAgency     { return p.serviceAgency }
func (p Person) OrganizationType() string         { return p.organizationType }
func (p Person) OrganizationName() string         { return p.organizationName }
func (p Person) OrganizationAbbreviation() string { return p.organizationAbbreviation }
func (p Person) ParentOrganization() string       { return p.parentOrganization }
func (p Person) Portfolio() string                { return p.portfolio }
func (p Person) Name() string                     { return p.name }
func (p Person) RankTitle() string                { return p.rankTitle }
func (p Person) Position() string                 { return p.position }
func (p Person) PositionType() PositionType       { return p.positionType }
func (p Person) Status() Status                   { return p.status }
func (p Person) Email() string                    { return p.email }
func (p Person) Phone() string                    { return p.phone }
func (p Person) Location() string                 { return p.location }
func (p Person) Building() string                 { return p.building }
func (p Person) MissionArea() string              { return p.missionArea }
func (p Person) KeyPrograms() string              { return p.keyPrograms }
func (p Person) PageNumber() int                  { return p.pageNumber }
func (p Person) Section() string                  { return p.section }
func (p Person) LastUpdated() string              { return p.lastUpdated }
func (p Person) Notes() string                    { return p.notes }
func (p Person) IsZero() bool                     { return p.id == "" && p.name == "" }

// MissionAreas splits the comma-joined mission area into trimmed, non-empty values.
func (p Person) MissionAreas() []string { return SplitList(p.missionArea) }

// KeyProgramList splits the comma-joined key programs into trimmed, non-empty values.
func (p Person) KeyProgramList() []string { return SplitList(p.keyPrograms) }

// Value returns the raw string value of a column.
func (p Person) Value(f Field) string {
	switch f {
	case FieldServiceAgency:
		return string(p.serviceAgency)
	case FieldOrganizationType:
		return p.organizationType
	case FieldOrganizationName:
		return p.organizationName
	case FieldOrganizationAbbreviation:
		return p.organizationAbbreviation
	case FieldParentOrganization:
		return p.parentOrganization
	case FieldPortfolio:
		return p.portfolio
	case FieldName:
		return p.name
	case FieldRankTitle:
		return p.rankTitle
	case FieldPosition:
		return p.position
	case FieldPositionType:
		return string(p.positionType)
	case FieldStatus:
		return string(p.status)
	case FieldEmail:
		return p.email
	case FieldPhone:
		return p.phone
	case FieldLocation:
		return p.location
	case FieldBuilding:
		return p.building
	case FieldMissionArea:
		return p.missionArea
	case FieldKeyPrograms:
		return p.keyPrograms
	case FieldPageNumber:
		return strconv.Itoa(p.pageNumber)
	case FieldSection:
		return p.section
	case FieldLastUpdated:
		return p.lastUpdated
	case FieldNotes:
		return p.notes
	}
	return ""
}

// Record returns the normalized attributes of the person.
func (p Person) Record() Record {
	return Record{
		ServiceAgency:            string(p.serviceAgency),
		OrganizationType:         p.organizationType,
		OrganizationName:         p.organizationName,
		OrganizationAbbreviation: p.organizationAbbreviation,
		ParentOrganization:       p.parentOrganization,
		Portfolio:                p.portfolio,
		Name:                     p.name,
		RankTitle:                p.rankTitle,
		Position:                 p.position,
		PositionType:             string(p.positionType),
		Status:                   string(p.status),
		Email:                    p.email,
		Phone:                    p.phone,
		Location:                 p.location,
		Building:                 p.building,
		MissionArea:              p.missionArea,
		KeyPrograms:              p.keyPrograms,
		PageNumber:               p.pageNumber,
		Section:                  p.section,
		LastUpdated:              p.lastUpdated,
		Notes:                    p.notes,
	}
}

// SplitList splits a comma-joined multi-value cell.
func SplitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
