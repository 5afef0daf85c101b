// Package mc implements the multi-domain Monte Carlo tactics engine: a
// flat entity store ticked through a fixed AI → physics → sensor →
// weapon → event pipeline, running N seeded replays deterministically.
// It imports the root package for vector algebra and the Kepler solver.
package mc

import "github.com/relaysim/sentinel"

// PhysicsType discriminates an entity's propagation model, replacing
// virtual dispatch with a small branch in the physics stage.
type PhysicsType uint8

const (
	PhysicsNone PhysicsType = iota
	PhysicsOrbital2Body
	PhysicsFlight3DOF
	PhysicsStatic
)

// ParsePhysicsType maps a scenario JSON string to a PhysicsType
// ("ground" is an alias for "static").
func ParsePhysicsType(s string) PhysicsType {
	switch s {
	case "orbital_2body":
		return PhysicsOrbital2Body
	case "flight3dof":
		return PhysicsFlight3DOF
	case "static", "ground":
		return PhysicsStatic
	default:
		return PhysicsNone
	}
}

// AIType discriminates which AI system (if any) drives an entity.
type AIType uint8

const (
	AINone AIType = iota
	AIOrbitalCombat
	AIWaypointPatrol
	AIIntercept
)

// ParseAIType maps a scenario JSON string to an AIType.
func ParseAIType(s string) AIType {
	switch s {
	case "orbital_combat":
		return AIOrbitalCombat
	case "waypoint_patrol":
		return AIWaypointPatrol
	case "intercept":
		return AIIntercept
	default:
		return AINone
	}
}

// WeaponType discriminates which weapon kill chain (if any) an entity
// runs.
type WeaponType uint8

const (
	WeaponNone WeaponType = iota
	WeaponKineticKill
	WeaponSAMBattery
	WeaponA2AMissile
)

// ParseWeaponType maps a scenario JSON string to a WeaponType
// ("fighter_loadout" is an alias for "a2a_missile").
func ParseWeaponType(s string) WeaponType {
	switch s {
	case "kinetic_kill":
		return WeaponKineticKill
	case "sam_battery":
		return WeaponSAMBattery
	case "a2a_missile", "fighter_loadout":
		return WeaponA2AMissile
	default:
		return WeaponNone
	}
}

// CombatRole tags an entity's role in the orbital-combat AI.
type CombatRole uint8

const (
	RoleNone CombatRole = iota
	RoleHVA
	RoleDefender
	RoleAttacker
	RoleEscort
	RoleSweep
)

func (r CombatRole) String() string {
	switch r {
	case RoleHVA:
		return "hva"
	case RoleDefender:
		return "defender"
	case RoleAttacker:
		return "attacker"
	case RoleEscort:
		return "escort"
	case RoleSweep:
		return "sweep"
	default:
		return ""
	}
}

// ParseCombatRole maps a scenario JSON string to a CombatRole.
func ParseCombatRole(s string) CombatRole {
	switch s {
	case "hva":
		return RoleHVA
	case "defender":
		return RoleDefender
	case "attacker":
		return RoleAttacker
	case "escort":
		return RoleEscort
	case "sweep":
		return RoleSweep
	default:
		return RoleNone
	}
}

// EngagementRules gates weapon-stage firing decisions. "weapons_tight"
// is parsed and stored but does not change runtime behavior; it is
// reserved for rules-of-engagement modes finer than free/hold.
type EngagementRules uint8

const (
	WeaponsFree EngagementRules = iota
	WeaponsHold
	WeaponsTight
)

func ParseEngagementRules(s string) EngagementRules {
	switch s {
	case "weapons_hold":
		return WeaponsHold
	case "weapons_tight":
		return WeaponsTight
	default:
		return WeaponsFree
	}
}

// EngagementRecord is a per-entity combat log line, appended in
// sim-time order.
type EngagementRecord struct {
	TargetID   string
	TargetName string
	Result     string // "LAUNCH", "KILL", "MISS", "KILLED_BY"
	Time       float64
}

// Waypoint is a single patrol leg, in degrees/meters.
type Waypoint struct {
	LatDeg float64
	LonDeg float64
	AltM   float64
	SpeedMS float64 // 0 = maintain current speed
}

// RadarDetection is a single sensor contact, rebuilt each sweep.
type RadarDetection struct {
	EntityID string
	RangeM   float64
	BearingRad float64
	Time     float64
}

// SAMEngagement tracks one SAM battery's active engagement.
// Phases: 0=DETECT, 1=TRACK, 2=ENGAGE, 3=ASSESS.
type SAMEngagement struct {
	TargetID      string
	Phase         int
	PhaseTimer    float64
	MissilesFired int
}

// A2AEngagement tracks one A2A shooter's active engagement.
// Phases: 0=LOCK, 1=GUIDE, 2=ASSESS.
type A2AEngagement struct {
	TargetID   string
	Phase      int
	PhaseTimer float64
	WeaponType string
}

// WeaponSpec describes one A2A missile type's performance envelope.
type WeaponSpec struct {
	Name    string
	RangeM  float64
	Pk      float64
	SpeedMS float64
}

// Entity is the flat, all-domains-inlined record every system reads and
// writes a handful of fields on, rather than dispatching through an
// interface hierarchy: every tick touches every active entity, and
// contiguity is a measurable constant factor.
type Entity struct {
	// Identity
	ID   string
	Name string
	Type string // "satellite", "aircraft", "ground", "sam", "radar", ...
	Team string // "blue", "red"

	// State
	Active    bool
	Destroyed bool

	// Discriminators
	PhysicsType PhysicsType
	AIType      AIType
	WeaponType  WeaponType

	// ECI state (orbital entities), meters / m/s
	ECIPos smd.Vec3
	ECIVel smd.Vec3

	// Orbital elements cached from init (radians where applicable)
	SMA             float64
	Ecc             float64
	IncRad          float64
	RAANRad         float64
	ArgPeRad        float64
	MeanAnomalyRad  float64

	// Geodetic position (atmospheric / ground entities)
	GeoLatDeg float64
	GeoLonDeg float64
	GeoAltM   float64

	// Flight state (3-DOF atmospheric)
	FlightSpeedMS    float64 // TAS
	FlightHeadingRad float64 // true north, clockwise
	FlightGammaRad   float64 // flight path angle
	FlightRollRad    float64 // bank angle
	FlightAlphaRad   float64 // angle of attack
	FlightMach       float64
	FlightThrottle   float64 // 0-1
	FlightEngineOn   bool

	// Aircraft parameters
	ACMass       float64
	ACWingArea   float64
	ACAR         float64 // aspect ratio
	ACCd0        float64
	ACOswald     float64
	ACClAlpha    float64 // per radian
	ACClMax      float64
	ACThrustMil  float64
	ACThrustAB   float64
	ACMaxG       float64
	ACMaxAoARad  float64

	// Waypoint patrol state
	Waypoints     []Waypoint
	WaypointIndex int
	WaypointLoop  bool

	// Intercept AI state
	InterceptTargetID    string
	InterceptMode        int // 0=pursuit, 1=lead, 2=stern
	InterceptEngageRange float64
	InterceptState       int // 0=navigating, 1=engaged

	// Radar sensor state
	HasRadar           bool
	RadarMaxRangeM     float64
	RadarFOVDeg        float64
	RadarMinElevDeg    float64
	RadarMaxElevDeg    float64
	RadarSweepInterval float64
	RadarSweepTimer    float64
	RadarPDetect       float64
	RadarDetections    []RadarDetection

	// SAM battery state
	SAMMaxRangeM      float64
	SAMMinRangeM      float64
	SAMMissileSpeedMS float64
	SAMMissilesReady  int
	SAMSalvoSize      int
	SAMPkPerMissile   float64
	SAMEngagements    []SAMEngagement

	// A2A missile state
	A2ALoadout     []string
	A2AInventory   map[string]int
	A2ASpecs       map[string]WeaponSpec
	A2AEngagements []A2AEngagement
	A2ALockTime    float64

	// Engagement rules
	EngagementRules EngagementRules

	// Orbital combat AI fields
	Role            CombatRole
	SensorRangeM    float64
	DefenseRadiusM  float64
	MaxAccel        float64
	KillRangeM      float64
	ScanInterval    float64
	ScanTimer       float64
	AssignedHVAID   string
	CurrentTarget   string
	KKTargetID      string       // signal to the weapon system
	CachedTargets   []targetInfo // last scan's contacts, held between scans

	// Kinetic Kill weapon fields
	Pk               float64
	WeaponKillRangeM float64
	CooldownTime     float64
	CooldownTimer    float64
	LastLaunchTarget string

	// Per-entity engagement log
	Engagements []EngagementRecord
}

// NewEntity returns an Entity with the engine's documented defaults.
func NewEntity(id, name, entityType, team string) *Entity {
	return &Entity{
		ID:     id,
		Name:   name,
		Type:   entityType,
		Team:   team,
		Active: true,

		FlightThrottle: 0.8,
		FlightEngineOn: true,

		ACMass:      12000.0,
		ACWingArea:  28.0,
		ACAR:        3.0,
		ACCd0:       0.025,
		ACOswald:    0.8,
		ACClAlpha:   5.5,
		ACClMax:     1.5,
		ACThrustMil: 80000.0,
		ACThrustAB:  130000.0,
		ACMaxG:      9.0,
		ACMaxAoARad: 0.35,

		WaypointLoop: true,

		RadarMaxRangeM:     300000.0,
		RadarFOVDeg:        360.0,
		RadarMinElevDeg:    -5.0,
		RadarMaxElevDeg:    80.0,
		RadarSweepInterval: 0.5,
		RadarPDetect:       0.9,

		SAMMaxRangeM:      150000.0,
		SAMMinRangeM:      5000.0,
		SAMMissileSpeedMS: 1200.0,
		SAMMissilesReady:  8,
		SAMSalvoSize:      2,
		SAMPkPerMissile:   0.7,

		A2AInventory: make(map[string]int),
		A2ASpecs:     make(map[string]WeaponSpec),
		A2ALockTime:  1.5,

		EngagementRules: WeaponsFree,

		SensorRangeM:   1000000.0,
		DefenseRadiusM: 500000.0,
		MaxAccel:       50.0,
		KillRangeM:     50000.0,
		ScanInterval:   1.0,

		Pk:               0.7,
		WeaponKillRangeM: 50000.0,
		CooldownTime:     5.0,
	}
}
