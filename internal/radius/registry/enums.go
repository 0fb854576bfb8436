package registry

import "fmt"

// ServiceType is the Service-Type attribute's enumeration (Type 6,
// RFC 2865 §5.6).
type ServiceType uint32

const (
	ServiceTypeLogin           ServiceType = 1
	ServiceTypeFramed          ServiceType = 2
	ServiceTypeCallbackLogin   ServiceType = 3
	ServiceTypeCallbackFramed  ServiceType = 4
	ServiceTypeOutbound        ServiceType = 5
	ServiceTypeAdministrative  ServiceType = 6
	ServiceTypeNASPrompt       ServiceType = 7
	ServiceTypeAuthenticateOnly ServiceType = 8
	ServiceTypeCallbackNASPrompt ServiceType = 9
	ServiceTypeCallCheck       ServiceType = 10
	ServiceTypeCallbackAdministrative ServiceType = 11
)

var serviceTypeNames = map[ServiceType]string{
	ServiceTypeLogin:                   "Login",
	ServiceTypeFramed:                  "Framed",
	ServiceTypeCallbackLogin:           "Callback Login",
	ServiceTypeCallbackFramed:          "Callback Framed",
	ServiceTypeOutbound:                "Outbound",
	ServiceTypeAdministrative:          "Administrative",
	ServiceTypeNASPrompt:               "NAS Prompt",
	ServiceTypeAuthenticateOnly:        "Authenticate Only",
	ServiceTypeCallbackNASPrompt:       "Callback NAS Prompt",
	ServiceTypeCallCheck:               "Call Check",
	ServiceTypeCallbackAdministrative:  "Callback Administrative",
}

func (s ServiceType) String() string {
	if name, ok := serviceTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(s))
}

// NASPortType is the NAS-Port-Type attribute's enumeration (Type 61,
// RFC 2865 §5.41).
type NASPortType uint32

const (
	NASPortTypeAsync        NASPortType = 0
	NASPortTypeSync         NASPortType = 1
	NASPortTypeISDNSync     NASPortType = 2
	NASPortTypeISDNAsyncV120 NASPortType = 3
	NASPortTypeISDNAsyncV110 NASPortType = 4
	NASPortTypeVirtual      NASPortType = 5
	NASPortTypePIAFS        NASPortType = 6
	NASPortTypeEthernet     NASPortType = 15
	NASPortTypeWireless802_11 NASPortType = 19
)

var nasPortTypeNames = map[NASPortType]string{
	NASPortTypeAsync:          "Async",
	NASPortTypeSync:           "Sync",
	NASPortTypeISDNSync:       "ISDN Sync",
	NASPortTypeISDNAsyncV120:  "ISDN Async V.120",
	NASPortTypeISDNAsyncV110:  "ISDN Async V.110",
	NASPortTypeVirtual:        "Virtual",
	NASPortTypePIAFS:          "PIAFS",
	NASPortTypeEthernet:       "Ethernet",
	NASPortTypeWireless802_11: "Wireless-802.11",
}

func (n NASPortType) String() string {
	if name, ok := nasPortTypeNames[n]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(n))
}

// AcctStatusType is the Acct-Status-Type attribute's enumeration (Type 40,
// RFC 2866 §5.1).
type AcctStatusType uint32

const (
	AcctStatusTypeStart          AcctStatusType = 1
	AcctStatusTypeStop           AcctStatusType = 2
	AcctStatusTypeInterimUpdate  AcctStatusType = 3
	AcctStatusTypeAccountingOn   AcctStatusType = 7
	AcctStatusTypeAccountingOff  AcctStatusType = 8
)

var acctStatusTypeNames = map[AcctStatusType]string{
	AcctStatusTypeStart:         "Start",
	AcctStatusTypeStop:          "Stop",
	AcctStatusTypeInterimUpdate: "Interim-Update",
	AcctStatusTypeAccountingOn:  "Accounting-On",
	AcctStatusTypeAccountingOff: "Accounting-Off",
}

func (a AcctStatusType) String() string {
	if name, ok := acctStatusTypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(a))
}

// AcctTerminateCause is the Acct-Terminate-Cause attribute's enumeration
// (Type 49, RFC 2866 §5.10).
type AcctTerminateCause uint32

const (
	AcctTerminateCauseUserRequest       AcctTerminateCause = 1
	AcctTerminateCauseLostCarrier       AcctTerminateCause = 2
	AcctTerminateCauseLostService       AcctTerminateCause = 3
	AcctTerminateCauseIdleTimeout       AcctTerminateCause = 4
	AcctTerminateCauseSessionTimeout    AcctTerminateCause = 5
	AcctTerminateCauseAdminReset        AcctTerminateCause = 6
	AcctTerminateCauseAdminReboot       AcctTerminateCause = 7
	AcctTerminateCausePortError         AcctTerminateCause = 8
	AcctTerminateCauseNASError          AcctTerminateCause = 9
	AcctTerminateCauseNASRequest        AcctTerminateCause = 10
	AcctTerminateCauseNASReboot         AcctTerminateCause = 11
	AcctTerminateCausePortUnneeded      AcctTerminateCause = 12
	AcctTerminateCauseLostPower         AcctTerminateCause = 15
)

var acctTerminateCauseNames = map[AcctTerminateCause]string{
	AcctTerminateCauseUserRequest:    "User Request",
	AcctTerminateCauseLostCarrier:    "Lost Carrier",
	AcctTerminateCauseLostService:    "Lost Service",
	AcctTerminateCauseIdleTimeout:    "Idle Timeout",
	AcctTerminateCauseSessionTimeout: "Session Timeout",
	AcctTerminateCauseAdminReset:     "Admin Reset",
	AcctTerminateCauseAdminReboot:    "Admin Reboot",
	AcctTerminateCausePortError:      "Port Error",
	AcctTerminateCauseNASError:       "NAS Error",
	AcctTerminateCauseNASRequest:     "NAS Request",
	AcctTerminateCauseNASReboot:      "NAS Reboot",
	AcctTerminateCausePortUnneeded:   "Port Unneeded",
	AcctTerminateCauseLostPower:      "Lost Power",
}

func (a AcctTerminateCause) String() string {
	if name, ok := acctTerminateCauseNames[a]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(a))
}

// TunnelType is the Tunnel-Type attribute's enumeration (Type 64,
// RFC 2868 §3.1).
type TunnelType uint32

const (
	TunnelTypePPTP   TunnelType = 1
	TunnelTypeL2F    TunnelType = 2
	TunnelTypeL2TP   TunnelType = 3
	TunnelTypeATMP   TunnelType = 4
	TunnelTypeVTP    TunnelType = 5
	TunnelTypeGRE    TunnelType = 7
	TunnelTypeIPIP   TunnelType = 9
	TunnelTypeVLAN   TunnelType = 13
)

var tunnelTypeNames = map[TunnelType]string{
	TunnelTypePPTP: "PPTP",
	TunnelTypeL2F:  "L2F",
	TunnelTypeL2TP: "L2TP",
	TunnelTypeATMP: "ATMP",
	TunnelTypeVTP:  "VTP",
	TunnelTypeGRE:  "GRE",
	TunnelTypeIPIP: "IP-in-IP",
	TunnelTypeVLAN: "VLAN",
}

func (t TunnelType) String() string {
	if name, ok := tunnelTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(t))
}

// TunnelMediumType is the Tunnel-Medium-Type attribute's enumeration
// (Type 65, RFC 2868 §3.2).
type TunnelMediumType uint32

const (
	TunnelMediumTypeIPv4     TunnelMediumType = 1
	TunnelMediumTypeIPv6     TunnelMediumType = 2
	TunnelMediumTypeIEEE802  TunnelMediumType = 6
)

var tunnelMediumTypeNames = map[TunnelMediumType]string{
	TunnelMediumTypeIPv4:    "IPv4",
	TunnelMediumTypeIPv6:    "IPv6",
	TunnelMediumTypeIEEE802: "IEEE-802",
}

func (t TunnelMediumType) String() string {
	if name, ok := tunnelMediumTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(t))
}

// ErrorCause is the Error-Cause attribute's enumeration (Type 101 in some
// deployments, carried here as Type 151 per this registry's assignment;
// RFC 5176 §3.6).
type ErrorCause uint32

const (
	ErrorCauseResidualSessionContext    ErrorCause = 201
	ErrorCauseInvalidEAPPacket          ErrorCause = 202
	ErrorCauseUnsupportedAttribute      ErrorCause = 401
	ErrorCauseMissingAttribute          ErrorCause = 402
	ErrorCauseNASIdentificationMismatch ErrorCause = 403
	ErrorCauseInvalidRequest            ErrorCause = 404
	ErrorCauseUnsupportedService        ErrorCause = 405
	ErrorCauseUnsupportedExtension      ErrorCause = 406
	ErrorCauseInvalidAttributeValue     ErrorCause = 407
	ErrorCauseAdministrativelyProhibited ErrorCause = 501
	ErrorCauseRequestNotRoutable        ErrorCause = 502
	ErrorCauseSessionContextNotFound    ErrorCause = 503
	ErrorCauseSessionContextNotRemovable ErrorCause = 504
	ErrorCauseOtherProxyProcessingError ErrorCause = 505
	ErrorCauseResourcesUnavailable      ErrorCause = 506
	ErrorCauseRequestInitiated          ErrorCause = 507
	ErrorCauseMultipleSessionsNotSupported ErrorCause = 508
)

var errorCauseNames = map[ErrorCause]string{
	ErrorCauseResidualSessionContext:       "Residual Session Context Removed",
	ErrorCauseInvalidEAPPacket:             "Invalid EAP Packet",
	ErrorCauseUnsupportedAttribute:         "Unsupported Attribute",
	ErrorCauseMissingAttribute:             "Missing Attribute",
	ErrorCauseNASIdentificationMismatch:    "NAS Identification Mismatch",
	ErrorCauseInvalidRequest:               "Invalid Request",
	ErrorCauseUnsupportedService:           "Unsupported Service",
	ErrorCauseUnsupportedExtension:         "Unsupported Extension",
	ErrorCauseInvalidAttributeValue:        "Invalid Attribute Value",
	ErrorCauseAdministrativelyProhibited:   "Administratively Prohibited",
	ErrorCauseRequestNotRoutable:           "Request Not Routable",
	ErrorCauseSessionContextNotFound:       "Session Context Not Found",
	ErrorCauseSessionContextNotRemovable:   "Session Context Not Removable",
	ErrorCauseOtherProxyProcessingError:    "Other Proxy Processing Error",
	ErrorCauseResourcesUnavailable:         "Resources Unavailable",
	ErrorCauseRequestInitiated:             "Request Initiated",
	ErrorCauseMultipleSessionsNotSupported: "Multiple Session Selection Unsupported",
}

func (e ErrorCause) String() string {
	if name, ok := errorCauseNames[e]; ok {
		return name
	}
	return fmt.Sprintf(unknownFmt, uint32(e))
}
