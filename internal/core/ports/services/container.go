package services

// ServiceContainer bundles the service facades handed to route registration.
type ServiceContainer struct {
	Autopilot  AutopilotSvcFacade
	Allocation AllocationSvcFacade
	Spending   SpendingSvcFacade
	Timeline   TimelineSvcFacade
}
