package catalog

import (
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
)

// ServiceAccessoryInformation is the name of the per-accessory information service.
const ServiceAccessoryInformation = "AccessoryInformation"

// characteristicTable maps HomeKit characteristic names to the hap constructors.
var characteristicTable = []struct {
	name string
	ctor func() *characteristic.C
}{
	{"AccessoryFlags", func() *characteristic.C { return characteristic.NewAccessoryFlags().C }},
	{"AccessoryIdentifier", func() *characteristic.C { return characteristic.NewAccessoryIdentifier().C }},
	{"Active", func() *characteristic.C { return characteristic.NewActive().C }},
	{"ActiveIdentifier", func() *characteristic.C { return characteristic.NewActiveIdentifier().C }},
	{"ActivityInterval", func() *characteristic.C { return characteristic.NewActivityInterval().C }},
	{"AdministratorOnlyAccess", func() *characteristic.C { return characteristic.NewAdministratorOnlyAccess().C }},
	{"AirParticulateDensity", func() *characteristic.C { return characteristic.NewAirParticulateDensity().C }},
	{"AirParticulateSize", func() *characteristic.C { return characteristic.NewAirParticulateSize().C }},
	{"AirQuality", func() *characteristic.C { return characteristic.NewAirQuality().C }},
	{"AppMatchingIdentifier", func() *characteristic.C { return characteristic.NewAppMatchingIdentifier().C }},
	{"AudioFeedback", func() *characteristic.C { return characteristic.NewAudioFeedback().C }},
	{"BatteryLevel", func() *characteristic.C { return characteristic.NewBatteryLevel().C }},
	{"Brightness", func() *characteristic.C { return characteristic.NewBrightness().C }},
	{"CarbonDioxideDetected", func() *characteristic.C { return characteristic.NewCarbonDioxideDetected().C }},
	{"CarbonDioxideLevel", func() *characteristic.C { return characteristic.NewCarbonDioxideLevel().C }},
	{"CarbonDioxidePeakLevel", func() *characteristic.C { return characteristic.NewCarbonDioxidePeakLevel().C }},
	{"CarbonMonoxideDetected", func() *characteristic.C { return characteristic.NewCarbonMonoxideDetected().C }},
	{"CarbonMonoxideLevel", func() *characteristic.C { return characteristic.NewCarbonMonoxideLevel().C }},
	{"CarbonMonoxidePeakLevel", func() *characteristic.C { return characteristic.NewCarbonMonoxidePeakLevel().C }},
	{"Category", func() *characteristic.C { return characteristic.NewCategory().C }},
	{"ChargingState", func() *characteristic.C { return characteristic.NewChargingState().C }},
	{"ClosedCaptions", func() *characteristic.C { return characteristic.NewClosedCaptions().C }},
	{"ColorTemperature", func() *characteristic.C { return characteristic.NewColorTemperature().C }},
	{"ConfigureBridgedAccessory", func() *characteristic.C { return characteristic.NewConfigureBridgedAccessory().C }},
	{"ConfigureBridgedAccessoryStatus", func() *characteristic.C { return characteristic.NewConfigureBridgedAccessoryStatus().C }},
	{"ConfiguredName", func() *characteristic.C { return characteristic.NewConfiguredName().C }},
	{"ContactSensorState", func() *characteristic.C { return characteristic.NewContactSensorState().C }},
	{"CoolingThresholdTemperature", func() *characteristic.C { return characteristic.NewCoolingThresholdTemperature().C }},
	{"CurrentAirPurifierState", func() *characteristic.C { return characteristic.NewCurrentAirPurifierState().C }},
	{"CurrentAmbientLightLevel", func() *characteristic.C { return characteristic.NewCurrentAmbientLightLevel().C }},
	{"CurrentDoorState", func() *characteristic.C { return characteristic.NewCurrentDoorState().C }},
	{"CurrentFanState", func() *characteristic.C { return characteristic.NewCurrentFanState().C }},
	{"CurrentHeaterCoolerState", func() *characteristic.C { return characteristic.NewCurrentHeaterCoolerState().C }},
	{"CurrentHeatingCoolingState", func() *characteristic.C { return characteristic.NewCurrentHeatingCoolingState().C }},
	{"CurrentHorizontalTiltAngle", func() *characteristic.C { return characteristic.NewCurrentHorizontalTiltAngle().C }},
	{"CurrentHumidifierDehumidifierState", func() *characteristic.C { return characteristic.NewCurrentHumidifierDehumidifierState().C }},
	{"CurrentMediaState", func() *characteristic.C { return characteristic.NewCurrentMediaState().C }},
	{"CurrentPosition", func() *characteristic.C { return characteristic.NewCurrentPosition().C }},
	{"CurrentRelativeHumidity", func() *characteristic.C { return characteristic.NewCurrentRelativeHumidity().C }},
	{"CurrentSlatState", func() *characteristic.C { return characteristic.NewCurrentSlatState().C }},
	{"CurrentTemperature", func() *characteristic.C { return characteristic.NewCurrentTemperature().C }},
	{"CurrentTiltAngle", func() *characteristic.C { return characteristic.NewCurrentTiltAngle().C }},
	{"CurrentTime", func() *characteristic.C { return characteristic.NewCurrentTime().C }},
	{"CurrentTransport", func() *characteristic.C { return characteristic.NewCurrentTransport().C }},
	{"CurrentVerticalTiltAngle", func() *characteristic.C { return characteristic.NewCurrentVerticalTiltAngle().C }},
	{"CurrentVisibilityState", func() *characteristic.C { return characteristic.NewCurrentVisibilityState().C }},
	{"DayOfTheWeek", func() *characteristic.C { return characteristic.NewDayOfTheWeek().C }},
	{"DigitalZoom", func() *characteristic.C { return characteristic.NewDigitalZoom().C }},
	{"DiscoverBridgedAccessories", func() *characteristic.C { return characteristic.NewDiscoverBridgedAccessories().C }},
	{"DiscoveredBridgedAccessories", func() *characteristic.C { return characteristic.NewDiscoveredBridgedAccessories().C }},
	{"DisplayOrder", func() *characteristic.C { return characteristic.NewDisplayOrder().C }},
	{"FilterChangeIndication", func() *characteristic.C { return characteristic.NewFilterChangeIndication().C }},
	{"FilterLifeLevel", func() *characteristic.C { return characteristic.NewFilterLifeLevel().C }},
	{"FirmwareRevision", func() *characteristic.C { return characteristic.NewFirmwareRevision().C }},
	{"HardwareRevision", func() *characteristic.C { return characteristic.NewHardwareRevision().C }},
	{"HeartBeat", func() *characteristic.C { return characteristic.NewHeartBeat().C }},
	{"HeatingThresholdTemperature", func() *characteristic.C { return characteristic.NewHeatingThresholdTemperature().C }},
	{"HoldPosition", func() *characteristic.C { return characteristic.NewHoldPosition().C }},
	{"Hue", func() *characteristic.C { return characteristic.NewHue().C }},
	{"Identifier", func() *characteristic.C { return characteristic.NewIdentifier().C }},
	{"Identify", func() *characteristic.C { return characteristic.NewIdentify().C }},
	{"ImageMirroring", func() *characteristic.C { return characteristic.NewImageMirroring().C }},
	{"ImageRotation", func() *characteristic.C { return characteristic.NewImageRotation().C }},
	{"InputDeviceType", func() *characteristic.C { return characteristic.NewInputDeviceType().C }},
	{"InputSourceType", func() *characteristic.C { return characteristic.NewInputSourceType().C }},
	{"InUse", func() *characteristic.C { return characteristic.NewInUse().C }},
	{"IsConfigured", func() *characteristic.C { return characteristic.NewIsConfigured().C }},
	{"LeakDetected", func() *characteristic.C { return characteristic.NewLeakDetected().C }},
	{"LinkQuality", func() *characteristic.C { return characteristic.NewLinkQuality().C }},
	{"LockControlPoint", func() *characteristic.C { return characteristic.NewLockControlPoint().C }},
	{"LockCurrentState", func() *characteristic.C { return characteristic.NewLockCurrentState().C }},
	{"LockLastKnownAction", func() *characteristic.C { return characteristic.NewLockLastKnownAction().C }},
	{"LockManagementAutoSecurityTimeout", func() *characteristic.C { return characteristic.NewLockManagementAutoSecurityTimeout().C }},
	{"LockPhysicalControls", func() *characteristic.C { return characteristic.NewLockPhysicalControls().C }},
	{"LockTargetState", func() *characteristic.C { return characteristic.NewLockTargetState().C }},
	{"Logs", func() *characteristic.C { return characteristic.NewLogs().C }},
	{"Manufacturer", func() *characteristic.C { return characteristic.NewManufacturer().C }},
	{"Model", func() *characteristic.C { return characteristic.NewModel().C }},
	{"MotionDetected", func() *characteristic.C { return characteristic.NewMotionDetected().C }},
	{"Mute", func() *characteristic.C { return characteristic.NewMute().C }},
	{"Name", func() *characteristic.C { return characteristic.NewName().C }},
	{"NightVision", func() *characteristic.C { return characteristic.NewNightVision().C }},
	{"NitrogenDioxideDensity", func() *characteristic.C { return characteristic.NewNitrogenDioxideDensity().C }},
	{"ObstructionDetected", func() *characteristic.C { return characteristic.NewObstructionDetected().C }},
	{"OccupancyDetected", func() *characteristic.C { return characteristic.NewOccupancyDetected().C }},
	{"On", func() *characteristic.C { return characteristic.NewOn().C }},
	{"OpticalZoom", func() *characteristic.C { return characteristic.NewOpticalZoom().C }},
	{"OutletInUse", func() *characteristic.C { return characteristic.NewOutletInUse().C }},
	{"OzoneDensity", func() *characteristic.C { return characteristic.NewOzoneDensity().C }},
	{"PairingFeatures", func() *characteristic.C { return characteristic.NewPairingFeatures().C }},
	{"PairingPairings", func() *characteristic.C { return characteristic.NewPairingPairings().C }},
	{"PairSetup", func() *characteristic.C { return characteristic.NewPairSetup().C }},
	{"PairVerify", func() *characteristic.C { return characteristic.NewPairVerify().C }},
	{"PictureMode", func() *characteristic.C { return characteristic.NewPictureMode().C }},
	{"Ping", func() *characteristic.C { return characteristic.NewPing().C }},
	{"PM10Density", func() *characteristic.C { return characteristic.NewPM10Density().C }},
	{"PM2_5Density", func() *characteristic.C { return characteristic.NewPM2_5Density().C }},
	{"PositionState", func() *characteristic.C { return characteristic.NewPositionState().C }},
	{"PowerModeSelection", func() *characteristic.C { return characteristic.NewPowerModeSelection().C }},
	{"ProgrammableSwitchEvent", func() *characteristic.C { return characteristic.NewProgrammableSwitchEvent().C }},
	{"ProgrammableSwitchOutputState", func() *characteristic.C { return characteristic.NewProgrammableSwitchOutputState().C }},
	{"ProgramMode", func() *characteristic.C { return characteristic.NewProgramMode().C }},
	{"Reachable", func() *characteristic.C { return characteristic.NewReachable().C }},
	{"RelativeHumidityDehumidifierThreshold", func() *characteristic.C { return characteristic.NewRelativeHumidityDehumidifierThreshold().C }},
	{"RelativeHumidityHumidifierThreshold", func() *characteristic.C { return characteristic.NewRelativeHumidityHumidifierThreshold().C }},
	{"RemainingDuration", func() *characteristic.C { return characteristic.NewRemainingDuration().C }},
	{"RemoteKey", func() *characteristic.C { return characteristic.NewRemoteKey().C }},
	{"ResetFilterIndication", func() *characteristic.C { return characteristic.NewResetFilterIndication().C }},
	{"RotationDirection", func() *characteristic.C { return characteristic.NewRotationDirection().C }},
	{"RotationSpeed", func() *characteristic.C { return characteristic.NewRotationSpeed().C }},
	{"Saturation", func() *characteristic.C { return characteristic.NewSaturation().C }},
	{"SecuritySystemAlarmType", func() *characteristic.C { return characteristic.NewSecuritySystemAlarmType().C }},
	{"SecuritySystemCurrentState", func() *characteristic.C { return characteristic.NewSecuritySystemCurrentState().C }},
	{"SecuritySystemTargetState", func() *characteristic.C { return characteristic.NewSecuritySystemTargetState().C }},
	{"SelectedCameraRecordingConfiguration", func() *characteristic.C { return characteristic.NewSelectedCameraRecordingConfiguration().C }},
	{"SelectedRTPStreamConfiguration", func() *characteristic.C { return characteristic.NewSelectedRTPStreamConfiguration().C }},
	{"SelectedStreamConfiguration", func() *characteristic.C { return characteristic.NewSelectedStreamConfiguration().C }},
	{"SerialNumber", func() *characteristic.C { return characteristic.NewSerialNumber().C }},
	{"ServiceLabelIndex", func() *characteristic.C { return characteristic.NewServiceLabelIndex().C }},
	{"ServiceLabelNamespace", func() *characteristic.C { return characteristic.NewServiceLabelNamespace().C }},
	{"SetDuration", func() *characteristic.C { return characteristic.NewSetDuration().C }},
	{"SetupEndpoints", func() *characteristic.C { return characteristic.NewSetupEndpoints().C }},
	{"SlatType", func() *characteristic.C { return characteristic.NewSlatType().C }},
	{"SleepDiscoveryMode", func() *characteristic.C { return characteristic.NewSleepDiscoveryMode().C }},
	{"SleepInterval", func() *characteristic.C { return characteristic.NewSleepInterval().C }},
	{"SmokeDetected", func() *characteristic.C { return characteristic.NewSmokeDetected().C }},
	{"SoftwareRevision", func() *characteristic.C { return characteristic.NewSoftwareRevision().C }},
	{"StatusActive", func() *characteristic.C { return characteristic.NewStatusActive().C }},
	{"StatusFault", func() *characteristic.C { return characteristic.NewStatusFault().C }},
	{"StatusJammed", func() *characteristic.C { return characteristic.NewStatusJammed().C }},
	{"StatusLowBattery", func() *characteristic.C { return characteristic.NewStatusLowBattery().C }},
	{"StatusTampered", func() *characteristic.C { return characteristic.NewStatusTampered().C }},
	{"StreamingStatus", func() *characteristic.C { return characteristic.NewStreamingStatus().C }},
	{"SulphurDioxideDensity", func() *characteristic.C { return characteristic.NewSulphurDioxideDensity().C }},
	{"SupportedAudioRecordingConfiguration", func() *characteristic.C { return characteristic.NewSupportedAudioRecordingConfiguration().C }},
	{"SupportedAudioStreamConfiguration", func() *characteristic.C { return characteristic.NewSupportedAudioStreamConfiguration().C }},
	{"SupportedCameraRecordingConfiguration", func() *characteristic.C { return characteristic.NewSupportedCameraRecordingConfiguration().C }},
	{"SupportedRTPConfiguration", func() *characteristic.C { return characteristic.NewSupportedRTPConfiguration().C }},
	{"SupportedVideoRecordingConfiguration", func() *characteristic.C { return characteristic.NewSupportedVideoRecordingConfiguration().C }},
	{"SupportedVideoStreamConfiguration", func() *characteristic.C { return characteristic.NewSupportedVideoStreamConfiguration().C }},
	{"SwingMode", func() *characteristic.C { return characteristic.NewSwingMode().C }},
	{"TargetAirPurifierState", func() *characteristic.C { return characteristic.NewTargetAirPurifierState().C }},
	{"TargetAirQuality", func() *characteristic.C { return characteristic.NewTargetAirQuality().C }},
	{"TargetDoorState", func() *characteristic.C { return characteristic.NewTargetDoorState().C }},
	{"TargetFanState", func() *characteristic.C { return characteristic.NewTargetFanState().C }},
	{"TargetHeaterCoolerState", func() *characteristic.C { return characteristic.NewTargetHeaterCoolerState().C }},
	{"TargetHeatingCoolingState", func() *characteristic.C { return characteristic.NewTargetHeatingCoolingState().C }},
	{"TargetHorizontalTiltAngle", func() *characteristic.C { return characteristic.NewTargetHorizontalTiltAngle().C }},
	{"TargetHumidifierDehumidifierState", func() *characteristic.C { return characteristic.NewTargetHumidifierDehumidifierState().C }},
	{"TargetMediaState", func() *characteristic.C { return characteristic.NewTargetMediaState().C }},
	{"TargetPosition", func() *characteristic.C { return characteristic.NewTargetPosition().C }},
	{"TargetRelativeHumidity", func() *characteristic.C { return characteristic.NewTargetRelativeHumidity().C }},
	{"TargetSlatState", func() *characteristic.C { return characteristic.NewTargetSlatState().C }},
	{"TargetTemperature", func() *characteristic.C { return characteristic.NewTargetTemperature().C }},
	{"TargetTiltAngle", func() *characteristic.C { return characteristic.NewTargetTiltAngle().C }},
	{"TargetVerticalTiltAngle", func() *characteristic.C { return characteristic.NewTargetVerticalTiltAngle().C }},
	{"TargetVisibilityState", func() *characteristic.C { return characteristic.NewTargetVisibilityState().C }},
	{"TemperatureDisplayUnits", func() *characteristic.C { return characteristic.NewTemperatureDisplayUnits().C }},
	{"TimeUpdate", func() *characteristic.C { return characteristic.NewTimeUpdate().C }},
	{"TunnelConnectionTimeout", func() *characteristic.C { return characteristic.NewTunnelConnectionTimeout().C }},
	{"TunneledAccessoryAdvertising", func() *characteristic.C { return characteristic.NewTunneledAccessoryAdvertising().C }},
	{"TunneledAccessoryConnected", func() *characteristic.C { return characteristic.NewTunneledAccessoryConnected().C }},
	{"TunneledAccessoryStateNumber", func() *characteristic.C { return characteristic.NewTunneledAccessoryStateNumber().C }},
	{"ValveType", func() *characteristic.C { return characteristic.NewValveType().C }},
	{"Version", func() *characteristic.C { return characteristic.NewVersion().C }},
	{"VOCDensity", func() *characteristic.C { return characteristic.NewVOCDensity().C }},
	{"Volume", func() *characteristic.C { return characteristic.NewVolume().C }},
	{"VolumeControlType", func() *characteristic.C { return characteristic.NewVolumeControlType().C }},
	{"VolumeSelector", func() *characteristic.C { return characteristic.NewVolumeSelector().C }},
	{"WaterLevel", func() *characteristic.C { return characteristic.NewWaterLevel().C }},
	{"WifiCapabilities", func() *characteristic.C { return characteristic.NewWifiCapabilities().C }},
	{"WifiConfigurationControl", func() *characteristic.C { return characteristic.NewWifiConfigurationControl().C }},
}

// serviceTable maps HomeKit service names to the hap constructors.
var serviceTable = []struct {
	name string
	ctor func() *service.S
}{
	{"AccessoryInformation", func() *service.S { return service.NewAccessoryInformation().S }},
	{"AccessoryRuntimeInformation", func() *service.S { return service.NewAccessoryRuntimeInformation().S }},
	{"AirPurifier", func() *service.S { return service.NewAirPurifier().S }},
	{"AirQualitySensor", func() *service.S { return service.NewAirQualitySensor().S }},
	{"BatteryService", func() *service.S { return service.NewBatteryService().S }},
	{"CameraControl", func() *service.S { return service.NewCameraControl().S }},
	{"CameraRecordingManagement", func() *service.S { return service.NewCameraRecordingManagement().S }},
	{"CameraRTPStreamManagement", func() *service.S { return service.NewCameraRTPStreamManagement().S }},
	{"CarbonDioxideSensor", func() *service.S { return service.NewCarbonDioxideSensor().S }},
	{"CarbonMonoxideSensor", func() *service.S { return service.NewCarbonMonoxideSensor().S }},
	{"ContactSensor", func() *service.S { return service.NewContactSensor().S }},
	{"Dehumidifier", func() *service.S { return service.NewDehumidifier().S }},
	{"Door", func() *service.S { return service.NewDoor().S }},
	{"Doorbell", func() *service.S { return service.NewDoorbell().S }},
	{"Fan", func() *service.S { return service.NewFan().S }},
	{"FanV2", func() *service.S { return service.NewFanV2().S }},
	{"Faucet", func() *service.S { return service.NewFaucet().S }},
	{"FilterMaintenance", func() *service.S { return service.NewFilterMaintenance().S }},
	{"GarageDoorOpener", func() *service.S { return service.NewGarageDoorOpener().S }},
	{"HeaterCooler", func() *service.S { return service.NewHeaterCooler().S }},
	{"Humidifier", func() *service.S { return service.NewHumidifier().S }},
	{"HumidifierDehumidifier", func() *service.S { return service.NewHumidifierDehumidifier().S }},
	{"HumiditySensor", func() *service.S { return service.NewHumiditySensor().S }},
	{"InputSource", func() *service.S { return service.NewInputSource().S }},
	{"IrrigationSystem", func() *service.S { return service.NewIrrigationSystem().S }},
	{"LeakSensor", func() *service.S { return service.NewLeakSensor().S }},
	{"Lightbulb", func() *service.S { return service.NewLightbulb().S }},
	{"LightSensor", func() *service.S { return service.NewLightSensor().S }},
	{"LockManagement", func() *service.S { return service.NewLockManagement().S }},
	{"LockMechanism", func() *service.S { return service.NewLockMechanism().S }},
	{"Microphone", func() *service.S { return service.NewMicrophone().S }},
	{"MotionSensor", func() *service.S { return service.NewMotionSensor().S }},
	{"OccupancySensor", func() *service.S { return service.NewOccupancySensor().S }},
	{"Outlet", func() *service.S { return service.NewOutlet().S }},
	{"ProtocolInformation", func() *service.S { return service.NewProtocolInformation().S }},
	{"SecuritySystem", func() *service.S { return service.NewSecuritySystem().S }},
	{"ServiceLabel", func() *service.S { return service.NewServiceLabel().S }},
	{"Slat", func() *service.S { return service.NewSlat().S }},
	{"SmokeSensor", func() *service.S { return service.NewSmokeSensor().S }},
	{"Speaker", func() *service.S { return service.NewSpeaker().S }},
	{"StatelessProgrammableSwitch", func() *service.S { return service.NewStatelessProgrammableSwitch().S }},
	{"Switch", func() *service.S { return service.NewSwitch().S }},
	{"Television", func() *service.S { return service.NewTelevision().S }},
	{"TemperatureSensor", func() *service.S { return service.NewTemperatureSensor().S }},
	{"Thermostat", func() *service.S { return service.NewThermostat().S }},
	{"Valve", func() *service.S { return service.NewValve().S }},
	{"Window", func() *service.S { return service.NewWindow().S }},
	{"WindowCovering", func() *service.S { return service.NewWindowCovering().S }},
}
