package domain

import "encoding/json"

// Enums cross the JSON boundary as names. Incoming payloads may use either
// the name or the raw ordinal; outgoing payloads always carry the name.

func (z ZoneType) MarshalJSON() ([]byte, error) { return json.Marshal(z.String()) }

func (z *ZoneType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseZoneType(name)
		if err != nil {
			return err
		}
		*z = parsed
		return nil
	}
	var ordinal uint8
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return Validationf("invalid zone type %s", string(data))
	}
	*z = ZoneType(ordinal)
	return nil
}

func (d DroneType) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *DroneType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseDroneType(name)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	var ordinal uint8
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return Validationf("invalid drone type %s", string(data))
	}
	*d = DroneType(ordinal)
	return nil
}

func (s DroneStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *DroneStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseDroneStatus(name)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var ordinal uint8
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return Validationf("invalid drone status %s", string(data))
	}
	*s = DroneStatus(ordinal)
	return nil
}

func (s RouteStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *RouteStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseRouteStatus(name)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var ordinal uint8
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return Validationf("invalid route status %s", string(data))
	}
	*s = RouteStatus(ordinal)
	return nil
}
