package person

// Field names a column of the primary source table.
type Field string

const (
	FieldServiceAgency            Field = "service_agency"
	FieldOrganizationType         Field = "organization_type"
	FieldOrganizationName         Field = "organization_name"
	FieldOrganizationAbbreviation Field = "organization_abbreviation"
	FieldParentOrganization       Field = "parent_organization"
	FieldPortfolio                Field = "portfolio"
	FieldName                     Field = "name"
	FieldRankTitle                Field = "rank_title"
	FieldPosition                 Field = "position"
	FieldPositionType             Field = "position_type"
	FieldStatus                   Field = "status"
	FieldEmail                    Field = "email"
	FieldPhone                    Field = "phone"
	FieldLocation                 Field = "location"
	FieldBuilding                 Field = "building"
	FieldMissionArea              Field = "mission_area"
	FieldKeyPrograms              Field = "key_programs"
	FieldPageNumber               Field = "page_number"
	FieldSection                  Field = "section"
	FieldLastUpdated              Field = "last_updated"
	FieldNotes                    Field = "notes"
)

// Fields lists the primary table columns in their canonical export order.
var Fields = []Field{
	FieldServiceAgency, FieldOrganizationType, FieldOrganizationName, FieldOrganizationAbbreviation,
	FieldParentOrganization, FieldPortfolio, FieldName, FieldRankTitle, FieldPosition,
	FieldPositionType, FieldStatus, FieldEmail, FieldPhone, FieldLocation, FieldBuilding,
	FieldMissionArea, FieldKeyPrograms, FieldPageNumber, FieldSection, FieldLastUpdated, FieldNotes,
}

func ParseField(v string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == v {
			return f, true
		}
	}
	return "", false
}
