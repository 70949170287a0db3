package models

// DayOfWeek defines the days of the week for unavailability schedules.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// AllDays lists the weekdays in calendar order, Sunday first.
var AllDays = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DutyRole defines the role a faculty member holds in one shift.
type DutyRole string

const (
	RoleSupervisor  DutyRole = "supervisor"
	RoleInvigilator DutyRole = "invigilator"
)

// ShiftMode defines which shifts of an exam date are active.
type ShiftMode string

const (
	ShiftModeBoth   ShiftMode = "both"
	ShiftModeFirst  ShiftMode = "shift1"
	ShiftModeSecond ShiftMode = "shift2"
)

// ShiftNumber identifies one of the two daily sessions.
type ShiftNumber int

const (
	Shift1 ShiftNumber = 1
	Shift2 ShiftNumber = 2
)

// BackupSection defines the independently timestamped sections of a backup.
type BackupSection string

const (
	SectionDuties  BackupSection = "duties"
	SectionHistory BackupSection = "history"
	SectionFaculty BackupSection = "faculty"
)

// AllSections lists every backup section.
var AllSections = []BackupSection{SectionDuties, SectionHistory, SectionFaculty}

// FacultyShift is a coarse working-hours tag used for advisory warnings only.
type FacultyShift string

const (
	MorningShift FacultyShift = "Morning"
	DayShift     FacultyShift = "Day"
)
