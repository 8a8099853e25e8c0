package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lego-wireless/lwp-go/pkg/version"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// TXTRecordMap holds TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT builds the TXT records for info.
func EncodeTXT(info *HubInfo) TXTRecordMap {
	txt := TXTRecordMap{
		TXTKeyName:         info.Name,
		TXTKeySystemDevice: fmt.Sprintf("%02X", uint8(info.SystemDevice)),
		TXTKeyCapabilities: fmt.Sprintf("%02X", uint8(info.Capabilities)),
		TXTKeyLWP:          info.Protocol.String(),
	}
	if info.Firmware != (version.Version{}) {
		txt[TXTKeyFirmware] = info.Firmware.String()
	}
	if info.MAC != "" {
		txt[TXTKeyMAC] = info.MAC
	}
	return txt
}

// DecodeTXT parses hub TXT records. Port is left zero.
func DecodeTXT(txt TXTRecordMap) (*HubInfo, error) {
	info := &HubInfo{}

	name, ok := txt[TXTKeyName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyName)
	}
	info.Name = name

	sd, err := hexByte(txt, TXTKeySystemDevice)
	if err != nil {
		return nil, err
	}
	info.SystemDevice = wire.SystemDevice(sd)

	caps, err := hexByte(txt, TXTKeyCapabilities)
	if err != nil {
		return nil, err
	}
	info.Capabilities = wire.DeviceCapabilities(caps)

	lwp, ok := txt[TXTKeyLWP]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyLWP)
	}
	if info.Protocol, err = version.ParseProtocol(lwp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTXT, TXTKeyLWP, err)
	}

	if fw, ok := txt[TXTKeyFirmware]; ok {
		if info.Firmware, err = version.Parse(fw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTXT, TXTKeyFirmware, err)
		}
	}
	info.MAC = txt[TXTKeyMAC]
	return info, nil
}

func hexByte(txt TXTRecordMap, key string) (uint8, error) {
	s, ok := txt[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingRequired, key)
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, key, s)
	}
	return uint8(v), nil
}

// TXTRecordsToStrings converts a TXTRecordMap to "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	return result
}

// StringsToTXTRecords parses "key=value" strings. A bare key maps to "".
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k != "" {
			txt[k] = v
		}
	}
	return txt
}

// InstanceName returns the DNS-SD instance name for a hub name.
func InstanceName(name string) string {
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}
