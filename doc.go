// Package photoheart renders a pulsing 3D heart made of photo sprites with
// [Ebitengine].
//
// A [Formation] of particles settles onto a parametric heart surface that
// beats over time. Holding the on-screen button (or Space) switches the
// [Context] to the expanding phase and scales the heart outward from its
// center; releasing lets the particles ease back. Particles are camera-facing
// sprites cut from the user's photos with a heart, circle or square [MaskShape].
//
// # Quick start
//
//	cfg := photoheart.DefaultConfig()
//	cfg.Photos.Paths = []string{"a.jpg", "https://example.com/b.png"}
//	scene := photoheart.NewScene(cfg)
//	if err := photoheart.Run(scene); err != nil {
//		log.Fatal(err)
//	}
//
// [Scene] implements [ebiten.Game], so it can also be embedded in an
// existing game by forwarding Update, Draw and Layout.
//
// # Loading
//
// Photos load concurrently on a background goroutine the first time the scene
// updates. Each asset has its own timeout and a failed asset never aborts the
// batch. If no photo loads, the scene spawns placeholder hearts and raises a
// single warning through its [Notifier].
//
// # Rendering
//
// The scene projects every particle through a perspective [Camera], sorts the
// sprites far to near and fades them into the fog color. Windows taller than
// wide use the portrait layout: bigger sprites and a farther camera.
//
// # Configuration
//
// Every tunable lives in [Config], which loads from YAML with [LoadConfig].
//
// # Testing
//
// [Scene.InjectHold] and [LoadTestScript] drive the hold control without a
// real pointer, and [Scene.Screenshot] captures frames for visual checks.
//
// Related packages: photoheart/termview draws the same formation in a
// terminal with tcell, photoheart/sound plays a heartbeat on each pulse, and
// photoheart/ecs mirrors phase changes into a Donburi world.
//
// [Ebitengine]: https://ebitengine.org
package photoheart
