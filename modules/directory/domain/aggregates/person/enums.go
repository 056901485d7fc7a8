package person

import (
	"strings"
)

type ServiceAgency string

const (
	ServiceOSD        ServiceAgency = "OSD"
	ServiceArmy       ServiceAgency = "Army"
	ServiceNavy       ServiceAgency = "Navy"
	ServiceAirForce   ServiceAgency = "Air Force"
	ServiceSpaceForce ServiceAgency = "Space Force"
	ServiceMarines    ServiceAgency = "Marines"
	ServiceSOCOM      ServiceAgency = "SOCOM"
	ServiceMDA        ServiceAgency = "MDA"
	ServiceDLA        ServiceAgency = "DLA"
	ServiceDISA       ServiceAgency = "DISA"
	ServiceDTRA       ServiceAgency = "DTRA"
	ServiceDARPA      ServiceAgency = "DARPA"
	ServiceDCMA       ServiceAgency = "DCMA"
	ServiceDHA        ServiceAgency = "DHA"
	ServiceNGA        ServiceAgency = "NGA"
	ServiceNSA        ServiceAgency = "NSA"
	ServiceDIA        ServiceAgency = "DIA"
	ServiceUnknown    ServiceAgency = "Unknown"
)

var KnownServices = []ServiceAgency{
	ServiceOSD, ServiceArmy, ServiceNavy, ServiceAirForce, ServiceSpaceForce, ServiceMarines,
	ServiceSOCOM, ServiceMDA, ServiceDLA, ServiceDISA, ServiceDTRA, ServiceDARPA, ServiceDCMA,
	ServiceDHA, ServiceNGA, ServiceNSA, ServiceDIA,
}

var servicesByKey = func() map[string]ServiceAgency {
	m := make(map[string]ServiceAgency, len(KnownServices))
	for _, s := range KnownServices {
		m[enumKey(string(s))] = s
	}
	return m
}()

// ParseServiceAgency matches raw against the known services ignoring case and
// whitespace differences. Anything else maps to ServiceUnknown.
func ParseServiceAgency(raw string) ServiceAgency {
	if s, ok := servicesByKey[enumKey(raw)]; ok {
		return s
	}
	return ServiceUnknown
}

func (s ServiceAgency) IsKnown() bool {
	_, ok := servicesByKey[enumKey(string(s))]
	return ok
}

type PositionType string

const (
	PositionTypePAE       PositionType = "PAE"
	PositionTypeCPE       PositionType = "CPE"
	PositionTypePEO       PositionType = "PEO"
	PositionTypePM        PositionType = "PM"
	PositionTypeDPM       PositionType = "DPM"
	PositionTypePdM       PositionType = "PdM"
	PositionTypePjM       PositionType = "PjM"
	PositionTypeASA       PositionType = "ASA"
	PositionTypeUSD       PositionType = "USD"
	PositionTypeDASA      PositionType = "DASA"
	PositionTypeDirector  PositionType = "Director"
	PositionTypeChief     PositionType = "Chief"
	PositionTypeCommander PositionType = "Commander"
	PositionTypeCPEStaff  PositionType = "CPE Staff"
	PositionTypePAEStaff  PositionType = "PAE Staff"
	PositionTypeOther     PositionType = "Other"
)

var knownPositionTypes = map[PositionType]struct{}{
	PositionTypePAE: {}, PositionTypeCPE: {}, PositionTypePEO: {}, PositionTypePM: {},
	PositionTypeDPM: {}, PositionTypePdM: {}, PositionTypePjM: {}, PositionTypeASA: {},
	PositionTypeUSD: {}, PositionTypeDASA: {}, PositionTypeDirector: {}, PositionTypeChief: {},
	PositionTypeCommander: {}, PositionTypeCPEStaff: {}, PositionTypePAEStaff: {}, PositionTypeOther: {},
}

// ParsePositionType trims raw and falls back to Other only when it is blank.
// Unusual values are kept verbatim.
func ParsePositionType(raw string) PositionType {
	v := strings.TrimSpace(raw)
	if v == "" {
		return PositionTypeOther
	}
	return PositionType(v)
}

func (t PositionType) IsKnown() bool {
	_, ok := knownPositionTypes[t]
	return ok
}

type Status string

const (
	StatusConfirmed  Status = "Confirmed"
	StatusActing     Status = "Acting"
	StatusPTDO       Status = "PTDO"
	StatusNominated  Status = "Nominated"
	StatusDesignated Status = "Designated"
	StatusInterim    Status = "Interim"
	StatusVacant     Status = "Vacant"
)

var knownStatuses = map[Status]struct{}{
	StatusConfirmed: {}, StatusActing: {}, StatusPTDO: {}, StatusNominated: {},
	StatusDesignated: {}, StatusInterim: {}, StatusVacant: {},
}

// ParseStatus trims raw and falls back to Confirmed only when it is blank.
func ParseStatus(raw string) Status {
	v := strings.TrimSpace(raw)
	if v == "" {
		return StatusConfirmed
	}
	return Status(v)
}

func (s Status) IsKnown() bool {
	_, ok := knownStatuses[s]
	return ok
}

func enumKey(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}
