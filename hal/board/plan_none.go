//go:build !nucleo_f042k6

package board

// No board selected: SelectedPlan stays empty and no port is started.
