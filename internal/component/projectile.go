package component

// Projectile holds bullet-specific motion data. Non-homing bullets fly
// ballistically; homing ones steer toward the player while in range.
//
// Age only grows. The tick Age first reaches TTL the bullet is marked for
// deletion, on-screen or not. TTL <= 0 means no expiry.
type Projectile struct {
	Homing   bool
	Speed    float64 // units/s, fixed magnitude for homing steering
	TurnRate float64 // 1/s blend factor toward the desired velocity
	TTL      float64 // ms, 0 = unlimited
	Age      float64 // ms accumulated
}
